package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。カートはセッションにだけある
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartLineRequest struct {
	ProductID int64 `form:"productId" json:"productId" validate:"required,gt=0"`
	Quantity  int64 `form:"quantity" json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")

	g.GET("", h.getCart)
	g.POST("/add", h.add)
	g.POST("/update", h.update)
	g.POST("/remove", h.remove)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	out, err := h.uc.View(c.Request().Context(), sess.Cart())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) bind(c echo.Context) (CartLineRequest, bool) {
	var req CartLineRequest
	if err := c.Bind(&req); err != nil {
		return req, false
	}
	if err := c.Validate(&req); err != nil {
		return req, false
	}
	return req, true
}

// 不明な商品・在庫切れはカートを変えずにトップへ
func (h *CartHandler) add(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/")
	}

	sess := middleware.CurrentSession(c)
	lines, err := h.uc.Add(c.Request().Context(), sess.Cart(), req.ProductID, req.Quantity)
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
			return c.Redirect(http.StatusFound, "/")
		}
		return writeError(c, err)
	}
	sess.SetCart(lines)
	return c.Redirect(http.StatusFound, "/cart")
}

func (h *CartHandler) update(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/cart")
	}

	sess := middleware.CurrentSession(c)
	lines, err := h.uc.Update(c.Request().Context(), sess.Cart(), req.ProductID, req.Quantity)
	if err != nil {
		return formError(c, err, "/cart")
	}
	sess.SetCart(lines)
	return c.Redirect(http.StatusFound, "/cart")
}

func (h *CartHandler) remove(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/cart")
	}

	sess := middleware.CurrentSession(c)
	sess.SetCart(usecase.Remove(sess.Cart(), req.ProductID))
	return c.Redirect(http.StatusFound, "/cart")
}
