package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders（チェックアウトと注文完了）
type OrderHandler struct {
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

// DI
func NewOrderHandler(checkout *usecase.CheckoutUsecase, orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type CheckoutRequest struct {
	Address string `form:"address" json:"address" validate:"max=1000"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")

	g.GET("/checkout", h.preview, middleware.RequireCustomer())
	g.POST("/checkout", h.placeOrder, middleware.RequireCustomer())
	g.GET("/confirmation/:id", h.confirmation)
}

func (h *OrderHandler) preview(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	lines := sess.Cart()
	if len(lines) == 0 {
		return c.Redirect(http.StatusFound, "/cart")
	}

	out, err := h.checkout.Preview(c.Request().Context(), sess.Identity().CustomerID(), lines)
	if err != nil {
		return formError(c, err, "/cart")
	}
	return c.JSON(http.StatusOK, out)
}

// カートは確定後にだけ空にする。失敗したらそのまま
func (h *OrderHandler) placeOrder(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/orders/checkout", "error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, "/orders/checkout", "error", "address too long")
	}

	sess := middleware.CurrentSession(c)
	out, err := h.checkout.PlaceOrder(c.Request().Context(), usecase.PlaceOrderInput{
		CustomerID: sess.Identity().CustomerID(),
		Lines:      sess.Cart(),
		Address:    req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyCart):
			return c.Redirect(http.StatusFound, "/cart")
		case errors.Is(err, usecase.ErrInsufficientStock), errors.Is(err, usecase.ErrNotFound):
			he, _ := usecase.AsHTTPError(err)
			return redirectWith(c, "/cart", "error", he.Message)
		}
		return formError(c, err, "/orders/checkout")
	}

	sess.ClearCart()
	return c.Redirect(http.StatusFound, "/orders/confirmation/"+strconv.FormatInt(out.ID, 10))
}

func (h *OrderHandler) confirmation(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	}
	viewer := middleware.CurrentSession(c).Identity().CustomerID()

	out, err := h.orders.Confirmation(c.Request().Context(), viewer, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
