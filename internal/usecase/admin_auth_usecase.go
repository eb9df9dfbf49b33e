package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	repo "storefront/internal/repository"
)

// AdminAuthUsecase は管理画面のログイン
type AdminAuthUsecase struct {
	admins repo.AdminUserRepository
	roles  repo.RoleRepository
	hasher PasswordHasher
}

func NewAdminAuthUsecase(admins repo.AdminUserRepository, roles repo.RoleRepository, hasher PasswordHasher) *AdminAuthUsecase {
	return &AdminAuthUsecase{admins: admins, roles: roles, hasher: hasher}
}

// ログイン時点の権限をまとめて返す（セッションに保存する）
type AdminLoginOutput struct {
	ID          int64
	Username    string
	SuperAdmin  bool
	RoleName    string
	Permissions []string
}

func errInvalidCredentials() error {
	return NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
}

func (u *AdminAuthUsecase) Login(ctx context.Context, username, password string) (AdminLoginOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AdminLoginOutput{}, errInvalidCredentials()
	}

	a, err := u.admins.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return AdminLoginOutput{}, errInvalidCredentials()
	}
	if err != nil {
		return AdminLoginOutput{}, dbError(ctx, "admin_auth.find", err)
	}
	if !u.hasher.Verify(password, a.PasswordHash) {
		return AdminLoginOutput{}, errInvalidCredentials()
	}

	out := AdminLoginOutput{ID: a.ID, Username: a.Username, SuperAdmin: a.IsSuperAdmin}
	if a.RoleID == nil {
		return out, nil
	}

	role, err := u.roles.FindByID(ctx, *a.RoleID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return AdminLoginOutput{}, dbError(ctx, "admin_auth.role", err)
	}
	if err == nil {
		out.RoleName = role.Name
		keys, err := u.roles.PermissionKeys(ctx, role.ID)
		if err != nil {
			return AdminLoginOutput{}, dbError(ctx, "admin_auth.permissions", err)
		}
		out.Permissions = keys
	}
	return out, nil
}
