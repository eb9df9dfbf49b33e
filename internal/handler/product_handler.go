package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// formError はフォームPOSTの失敗をリダイレクトにする。
// 403と想定外のエラーはリダイレクトせずにJSONで返す
func formError(c echo.Context, err error, back string) error {
	he, ok := usecase.AsHTTPError(err)
	switch {
	case !ok, errors.Is(err, usecase.ErrInternal), errors.Is(err, usecase.ErrForbidden):
		return writeError(c, err)
	case errors.Is(err, usecase.ErrUnauthenticated):
		return c.Redirect(http.StatusFound, "/auth/login")
	default:
		return redirectWith(c, back, "error", he.Message)
	}
}

func redirectWith(c echo.Context, path, key, msg string) error {
	return c.Redirect(http.StatusFound, path+"?"+url.Values{key: {msg}}.Encode())
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

// 公開ページ（トップ・一覧・商品詳細）とレビュー/いいね
type ProductHandler struct {
	uc      *usecase.ProductUsecase
	reviews *usecase.ReviewUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, reviews *usecase.ReviewUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, reviews: reviews}
}

type ReviewRequest struct {
	Rating  int    `form:"rating" json:"rating"`
	Comment string `form:"comment" json:"comment"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.home)
	e.GET("/shop", h.shop)
	e.GET("/product/:id", h.detail)
	e.POST("/product/:id/review", h.review, middleware.RequireCustomer())
	e.POST("/product/:id/love", h.love, middleware.RequireCustomer())
}

func (h *ProductHandler) home(c echo.Context) error {
	out, err := h.uc.Home(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) shop(c echo.Context) error {
	out, err := h.uc.Shop(c.Request().Context(), usecase.ShopInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("q"),
		Page:     queryInt(c, "page", 1),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
	}
	viewer := middleware.CurrentSession(c).Identity().CustomerID()

	out, err := h.uc.GetProductDetail(c.Request().Context(), id, viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) review(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/shop")
	}
	back := "/product/" + c.Param("id")

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, back, "error", "invalid body")
	}

	customerID := middleware.CurrentSession(c).Identity().CustomerID()
	if err := h.reviews.AddReview(c.Request().Context(), customerID, id, req.Rating, req.Comment); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/shop")
		}
		return formError(c, err, back)
	}
	return c.Redirect(http.StatusFound, back)
}

func (h *ProductHandler) love(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/shop")
	}

	customerID := middleware.CurrentSession(c).Identity().CustomerID()
	if _, err := h.reviews.ToggleLove(c.Request().Context(), customerID, id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/shop")
		}
		return formError(c, err, "/product/"+c.Param("id"))
	}
	return c.Redirect(http.StatusFound, "/product/"+c.Param("id"))
}
