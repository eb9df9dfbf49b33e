package db

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/authz"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const DefaultAdminUsername = "admin"

// Seed は権限キーと初期スーパー管理者を投入する。何度呼んでもよい。
func Seed(ctx context.Context, roles repo.RoleRepository, admins repo.AdminUserRepository, adminPassword string) error {
	for _, p := range authz.Defaults {
		if err := roles.EnsurePermission(ctx, string(p.Key), p.Label); err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Key, err)
		}
	}

	n, err := admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := model.AdminUser{
		Username:     DefaultAdminUsername,
		PasswordHash: string(hash),
		IsSuperAdmin: true,
	}
	if err := admins.Create(ctx, &u); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.InfoContext(ctx, "seeded super admin", "username", u.Username)
	return nil
}
