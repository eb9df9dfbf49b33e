package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /auth 配下（購入者の登録・ログイン・アカウント）
type AuthHandler struct {
	customers *usecase.CustomerUsecase
	orders    *usecase.OrderUsecase
	reviews   *usecase.ReviewUsecase
}

// DIコンストラクタ
func NewAuthHandler(customers *usecase.CustomerUsecase, orders *usecase.OrderUsecase, reviews *usecase.ReviewUsecase) *AuthHandler {
	return &AuthHandler{customers: customers, orders: orders, reviews: reviews}
}

type RegisterRequest struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// actionでprofile/passwordを切り替える
type AccountRequest struct {
	Action          string `form:"action" json:"action" validate:"oneof=profile password"`
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Address         string `form:"address" json:"address"`
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")

	g.POST("/register", h.register)
	g.GET("/login", loginPage)
	g.POST("/login", h.login)
	g.GET("/logout", h.logout)

	my := g.Group("", middleware.RequireCustomer())
	my.GET("/account", h.account)
	my.POST("/account", h.updateAccount)
	my.GET("/orders", h.myOrders)
	my.GET("/reviews", h.myReviews)
	my.POST("/reviews/edit/:id", h.editReview)
	my.POST("/reviews/delete/:id", h.deleteReview)
}

// ログイン画面の代わりに直前のエラーだけ返す
func loginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"error": c.QueryParam("error")})
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/auth/register", "error", "invalid body")
	}

	cust, err := h.customers.Register(c.Request().Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return formError(c, err, "/auth/register")
	}

	sess := middleware.CurrentSession(c)
	sess.Rotate()
	sess.LoginCustomer(cust.ID, cust.Name)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/auth/login", "error", "invalid body")
	}

	cust, err := h.customers.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusUnauthorized {
			return redirectWith(c, "/auth/login", "error", he.Message)
		}
		return writeError(c, err)
	}

	sess := middleware.CurrentSession(c)
	sess.Rotate()
	sess.LoginCustomer(cust.ID, cust.Name)
	return c.Redirect(http.StatusFound, "/")
}

// カートはセッションに残す
func (h *AuthHandler) logout(c echo.Context) error {
	middleware.CurrentSession(c).LogoutCustomer()
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) account(c echo.Context) error {
	id := middleware.CurrentSession(c).Identity().CustomerID()

	cust, err := h.customers.Account(c.Request().Context(), id)
	if err != nil {
		return formError(c, err, "/")
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *AuthHandler) updateAccount(c echo.Context) error {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/auth/account", "error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, "/auth/account", "error", "unknown action")
	}

	sess := middleware.CurrentSession(c)
	id := sess.Identity().CustomerID()
	ctx := c.Request().Context()

	if req.Action == "password" {
		err := h.customers.ChangePassword(ctx, id, usecase.ChangePasswordInput{
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
			ConfirmPassword: req.ConfirmPassword,
		})
		if err != nil {
			return formError(c, err, "/auth/account")
		}
		return redirectWith(c, "/auth/account", "success", "Password updated")
	}

	cust, err := h.customers.UpdateProfile(ctx, id, usecase.ProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return formError(c, err, "/auth/account")
	}
	// 表示名も更新
	sess.LoginCustomer(cust.ID, cust.Name)
	return redirectWith(c, "/auth/account", "success", "Profile updated")
}

func (h *AuthHandler) myOrders(c echo.Context) error {
	id := middleware.CurrentSession(c).Identity().CustomerID()

	out, err := h.orders.ListMine(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) myReviews(c echo.Context) error {
	id := middleware.CurrentSession(c).Identity().CustomerID()

	out, err := h.reviews.ListMine(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) editReview(c echo.Context) error {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/reviews")
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/auth/reviews", "error", "invalid body")
	}

	id := middleware.CurrentSession(c).Identity().CustomerID()
	if err := h.reviews.EditMine(c.Request().Context(), id, reviewID, req.Rating, req.Comment); err != nil {
		return formError(c, err, "/auth/reviews")
	}
	return c.Redirect(http.StatusFound, "/auth/reviews")
}

func (h *AuthHandler) deleteReview(c echo.Context) error {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/reviews")
	}

	id := middleware.CurrentSession(c).Identity().CustomerID()
	if err := h.reviews.DeleteMine(c.Request().Context(), id, reviewID); err != nil {
		return formError(c, err, "/auth/reviews")
	}
	return c.Redirect(http.StatusFound, "/auth/reviews")
}
