package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type AdminUserRepository interface {
	FindByUsername(ctx context.Context, username string) (model.AdminUser, error)
	FindByID(ctx context.Context, id int64) (model.AdminUser, error)
	// ユーザー名重複はErrDuplicate
	Create(ctx context.Context, u *model.AdminUser) error
	List(ctx context.Context) ([]model.AdminUserView, error)
	UpdateRole(ctx context.Context, id int64, roleID *int64) error
	Delete(ctx context.Context, id int64) error
	// ロール削除時に参照を外す
	DetachRole(ctx context.Context, roleID int64) error
	Count(ctx context.Context) (int64, error)
}

type RoleRepository interface {
	List(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id int64) (model.Role, error)
	// 名前重複はErrDuplicate
	Create(ctx context.Context, r *model.Role) error
	Update(ctx context.Context, r model.Role) error
	Delete(ctx context.Context, id int64) error

	PermissionIDs(ctx context.Context, roleID int64) ([]int64, error)
	// ロールの権限を丸ごと置き換える
	SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	// ログイン時の権限スナップショット用
	PermissionKeys(ctx context.Context, roleID int64) ([]string, error)

	ListPermissions(ctx context.Context) ([]model.Permission, error)
	// 無ければ作る（起動時の初期投入）
	EnsurePermission(ctx context.Context, key, label string) error
}
