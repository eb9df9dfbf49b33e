package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/authz"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者ログインとロール・管理者アカウントの管理
type AdminUserHandler struct {
	auth   *usecase.AdminAuthUsecase
	access *usecase.AccessUsecase
}

func NewAdminUserHandler(auth *usecase.AdminAuthUsecase, access *usecase.AccessUsecase) *AdminUserHandler {
	return &AdminUserHandler{auth: auth, access: access}
}

type AdminLoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type RoleRequest struct {
	Name          string  `form:"name" json:"name" validate:"required,max=255"`
	Description   string  `form:"description" json:"description"`
	PermissionIDs []int64 `form:"permissions" json:"permissions"`
}

type AdminUserRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=255"`
	Password string `form:"password" json:"password" validate:"required"`
	RoleID   string `form:"role_id" json:"role_id"`
}

type AdminRoleChangeRequest struct {
	RoleID string `form:"role_id" json:"role_id"`
}

// ログインだけはRequireAdminの外
func (h *AdminUserHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/admin/login", loginPage)
	e.POST("/admin/login", h.login)
	e.GET("/admin/logout", h.logout)
}

func (h *AdminUserHandler) RegisterRoutes(admin *echo.Group) {
	roles := admin.Group("/roles", middleware.RequirePermission(authz.ManageRoles))
	roles.GET("", h.listRoles)
	roles.POST("", h.createRole)
	roles.GET("/:id", h.getRole)
	roles.POST("/:id", h.updateRole)
	roles.POST("/delete/:id", h.deleteRole)

	users := admin.Group("/users", middleware.RequirePermission(authz.ManageUsers))
	users.GET("", h.listUsers)
	users.POST("", h.createUser)
	users.POST("/:id/role", h.changeRole)
	users.POST("/delete/:id", h.deleteUser)
}

// 権限はここで確定してセッションに入れる
func (h *AdminUserHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/admin/login", "error", "invalid body")
	}

	out, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusUnauthorized {
			return redirectWith(c, "/admin/login", "error", he.Message)
		}
		return writeError(c, err)
	}

	sess := middleware.CurrentSession(c)
	sess.Rotate()
	sess.LoginAdmin(out.ID, out.Username, out.SuperAdmin, out.Permissions)
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminUserHandler) logout(c echo.Context) error {
	middleware.CurrentSession(c).LogoutAdmin()
	return c.Redirect(http.StatusFound, "/admin/login")
}

func optionalID(v string) (*int64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func (h *AdminUserHandler) listRoles(c echo.Context) error {
	roles, err := h.access.ListRoles(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	perms, err := h.access.ListPermissions(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles, "permissions": perms})
}

func (h *AdminUserHandler) bindRole(c echo.Context) (usecase.RoleInput, string) {
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return usecase.RoleInput{}, "invalid body"
	}
	if err := c.Validate(&req); err != nil {
		return usecase.RoleInput{}, err.Error()
	}
	return usecase.RoleInput{Name: req.Name, Description: req.Description, PermissionIDs: req.PermissionIDs}, ""
}

func (h *AdminUserHandler) createRole(c echo.Context) error {
	in, msg := h.bindRole(c)
	if msg != "" {
		return redirectWith(c, "/admin/roles", "error", msg)
	}
	if _, err := h.access.CreateRole(c.Request().Context(), in); err != nil {
		return formError(c, err, "/admin/roles")
	}
	return redirectWith(c, "/admin/roles", "success", "Role created")
}

func (h *AdminUserHandler) getRole(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	out, err := h.access.GetRole(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) updateRole(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/roles")
	}
	in, msg := h.bindRole(c)
	if msg != "" {
		return redirectWith(c, "/admin/roles/"+c.Param("id"), "error", msg)
	}
	if err := h.access.UpdateRole(c.Request().Context(), id, in); err != nil {
		return formError(c, err, "/admin/roles")
	}
	return redirectWith(c, "/admin/roles", "success", "Role updated")
}

func (h *AdminUserHandler) deleteRole(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/roles")
	}
	if err := h.access.DeleteRole(c.Request().Context(), id); err != nil {
		return formError(c, err, "/admin/roles")
	}
	return redirectWith(c, "/admin/roles", "success", "Role deleted")
}

func (h *AdminUserHandler) listUsers(c echo.Context) error {
	users, err := h.access.ListAdminUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	roles, err := h.access.ListRoles(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users, "roles": roles})
}

func (h *AdminUserHandler) createUser(c echo.Context) error {
	var req AdminUserRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/admin/users", "error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, "/admin/users", "error", err.Error())
	}
	roleID, ok := optionalID(req.RoleID)
	if !ok {
		return redirectWith(c, "/admin/users", "error", "invalid role")
	}

	_, err := h.access.CreateAdminUser(c.Request().Context(), usecase.AdminUserInput{
		Username: req.Username,
		Password: req.Password,
		RoleID:   roleID,
	})
	if err != nil {
		return formError(c, err, "/admin/users")
	}
	return redirectWith(c, "/admin/users", "success", "Admin user created")
}

func (h *AdminUserHandler) changeRole(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/users")
	}
	var req AdminRoleChangeRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, "/admin/users", "error", "invalid body")
	}
	roleID, ok := optionalID(req.RoleID)
	if !ok {
		return redirectWith(c, "/admin/users", "error", "invalid role")
	}

	if err := h.access.ChangeAdminRole(c.Request().Context(), id, roleID); err != nil {
		return formError(c, err, "/admin/users")
	}
	return redirectWith(c, "/admin/users", "success", "Role changed")
}

func (h *AdminUserHandler) deleteUser(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect(http.StatusFound, "/admin/users")
	}
	actor := middleware.CurrentSession(c).Identity().AdminID()
	if err := h.access.DeleteAdminUser(c.Request().Context(), actor, id); err != nil {
		return formError(c, err, "/admin/users")
	}
	return redirectWith(c, "/admin/users", "success", "Admin user deleted")
}
