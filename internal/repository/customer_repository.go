package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 保存・取得を約束
type CustomerRepository interface {
	// メール重複はErrDuplicate
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
	// メール重複はErrDuplicate
	UpdateProfile(ctx context.Context, id int64, name, email, address string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error

	// 管理画面用（注文数・確定済み購入額つき）
	ListSummaries(ctx context.Context) ([]model.CustomerSummary, error)
	Count(ctx context.Context) (int64, error)
}
