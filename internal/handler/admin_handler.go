package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/authz"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ダッシュボード・カテゴリ・顧客・レビューの管理
type AdminHandler struct {
	dashboard  *usecase.DashboardUsecase
	categories *usecase.CategoryUsecase
	customers  *usecase.AdminCustomerUsecase
	reviews    *usecase.ReviewUsecase
}

func NewAdminHandler(
	dashboard *usecase.DashboardUsecase,
	categories *usecase.CategoryUsecase,
	customers *usecase.AdminCustomerUsecase,
	reviews *usecase.ReviewUsecase,
) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, categories: categories, customers: customers, reviews: reviews}
}

type CategoryRequest struct {
	Name string `form:"name" json:"name" validate:"required,max=255"`
}

func (h *AdminHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("", h.index, middleware.RequirePermission(authz.ViewDashboard))

	cats := admin.Group("/categories", middleware.RequirePermission(authz.ManageCategories))
	cats.GET("", h.listCategories)
	cats.POST("", h.createCategory)
	cats.POST("/delete/:id", h.deleteCategory)

	cust := admin.Group("/customers", middleware.RequirePermission(authz.ManageCustomers))
	cust.GET("", h.listCustomers)
	cust.GET("/:id", h.customerDetail)
	cust.POST("/delete/:id", h.deleteCustomer)

	rev := admin.Group("/reviews", middleware.RequirePermission(authz.ManageReviews))
	rev.GET("", h.listReviews)
	rev.POST("/delete/:id", h.deleteReview)
}

func (h *AdminHandler) index(c echo.Context) error {
	out, err := h.dashboard.Summary(c.Request().Context(), queryInt(c, "page", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listCategories(c echo.Context) error {
	out, err := h.categories.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/admin/categories", "error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, "/admin/categories", "error", err.Error())
	}
	if _, err := h.categories.Create(c.Request().Context(), req.Name); err != nil {
		return formError(c, err, "/admin/categories")
	}
	return redirectWith(c, "/admin/categories", "success", "Category created")
}

func (h *AdminHandler) deleteCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/categories")
	}
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return formError(c, err, "/admin/categories")
	}
	return redirectWith(c, "/admin/categories", "success", "Category deleted")
}

func (h *AdminHandler) listCustomers(c echo.Context) error {
	out, err := h.customers.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) customerDetail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	out, err := h.customers.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteCustomer(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/customers")
	}
	if err := h.customers.Delete(c.Request().Context(), id); err != nil {
		return formError(c, err, "/admin/customers")
	}
	return redirectWith(c, "/admin/customers", "success", "Customer deleted")
}

// ?rating=1..5で絞り込み
func (h *AdminHandler) listReviews(c echo.Context) error {
	var rating *int
	if v := c.QueryParam("rating"); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rating"})
		}
		rating = &r
	}
	out, err := h.reviews.AdminList(c.Request().Context(), rating)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteReview(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/reviews")
	}
	if err := h.reviews.AdminDelete(c.Request().Context(), id); err != nil {
		return formError(c, err, "/admin/reviews")
	}
	return redirectWith(c, "/admin/reviews", "success", "Review deleted")
}
