package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/authz"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProductRequest は商品作成・編集フォーム。priceは小数文字列のまま受ける
type ProductRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=255"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price" validate:"required"`
	Stock       int64  `form:"stock" json:"stock" validate:"gte=0"`
	CategoryID  string `form:"category_id" json:"category_id"`
	ImageURL    string `form:"image_url" json:"image_url"`
}

func (r ProductRequest) input() (usecase.AdminProductInput, bool) {
	in := usecase.AdminProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
	if v := strings.TrimSpace(r.CategoryID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return in, false
		}
		in.CategoryID = &id
	}
	return in, true
}

// /admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	g := admin.Group("/products", middleware.RequirePermission(authz.ManageProducts))

	g.GET("", h.list)
	g.POST("", h.createProduct)
	g.GET("/:id", h.get)
	g.POST("/:id", h.updateProduct)
	g.POST("/delete/:id", h.deleteProduct)
}

func (h *AdminProductHandler) list(c echo.Context) error {
	out, err := h.uc.AdminListProducts(c.Request().Context(), queryInt(c, "page", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	p, err := h.uc.AdminGetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) bind(c echo.Context) (usecase.AdminProductInput, string) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return usecase.AdminProductInput{}, "invalid body"
	}
	if err := c.Validate(&req); err != nil {
		return usecase.AdminProductInput{}, err.Error()
	}
	in, ok := req.input()
	if !ok {
		return usecase.AdminProductInput{}, "invalid category"
	}
	return in, ""
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	in, msg := h.bind(c)
	if msg != "" {
		return redirectWith(c, "/admin/products", "error", msg)
	}

	adminID := middleware.CurrentSession(c).Identity().AdminID()
	if _, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, in); err != nil {
		return formError(c, err, "/admin/products")
	}
	return redirectWith(c, "/admin/products", "success", "Product created")
}

// 在庫を変えた場合は調整履歴と監査ログが残る
func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/products")
	}
	back := "/admin/products/" + strconv.FormatInt(id, 10)

	in, msg := h.bind(c)
	if msg != "" {
		return redirectWith(c, back, "error", msg)
	}

	adminID := middleware.CurrentSession(c).Identity().AdminID()
	if err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, in); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/admin/products")
		}
		return formError(c, err, back)
	}
	return redirectWith(c, "/admin/products", "success", "Product updated")
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/products")
	}

	adminID := middleware.CurrentSession(c).Identity().AdminID()
	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return formError(c, err, "/admin/products")
	}
	return redirectWith(c, "/admin/products", "success", "Product deleted")
}
