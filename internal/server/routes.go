package server

import (
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Auth         *handler.AuthHandler
	Order        *handler.OrderHandler
	AdminUser    *handler.AdminUserHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	Admin        *handler.AdminHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)

	// /admin/loginはガードの外
	h.AdminUser.RegisterPublicRoutes(e)

	admin := e.Group("/admin", middleware.RequireAdmin())
	h.Admin.RegisterRoutes(admin)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
}
