package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain/authz"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `form:"status" json:"status" validate:"required"`
}

// adminはRequireAdmin済みのグループ
func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	view := middleware.RequirePermission(authz.ViewOrders)
	manage := middleware.RequirePermission(authz.ManageOrders)

	admin.GET("/orders", h.list, view)
	admin.GET("/orders/:id", h.detail, view)
	admin.POST("/orders/:id/status", h.updateStatus, manage)
	admin.POST("/orders/delete/:id", h.delete, manage)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	orderID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 在庫不足・競合はロールバック済みで注文詳細へ戻す
func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/orders")
	}
	back := "/admin/orders/" + strconv.FormatInt(orderID, 10)

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, back, "error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, back, "error", "status is required")
	}

	// 操作した管理者ID（監査ログ用）
	adminID := middleware.CurrentSession(c).Identity().AdminID()

	err := h.uc.UpdateStatus(
		c.Request().Context(),
		adminID,
		orderID,
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/admin/orders")
		}
		return formError(c, err, back)
	}

	return redirectWith(c, back, "success", "Order status updated")
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	orderID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/orders")
	}

	adminID := middleware.CurrentSession(c).Identity().AdminID()
	if err := h.uc.Delete(c.Request().Context(), adminID, orderID); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/admin/orders")
		}
		return formError(c, err, "/admin/orders/"+strconv.FormatInt(orderID, 10))
	}
	return redirectWith(c, "/admin/orders", "success", "Order deleted")
}
