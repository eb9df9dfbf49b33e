package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 行ロック付き（トランザクション内で使う）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// statusがfromのときだけtoに更新する。更新できたらtrue
	UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)
	Delete(ctx context.Context, orderID int64) error

	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	Count(ctx context.Context) (int64, error)
	// 確定済み注文の合計金額
	SumConfirmedTotal(ctx context.Context) (decimal.Decimal, error)

	// 顧客削除時に参照を外す（スナップショットは残る）
	DetachCustomer(ctx context.Context, customerID int64) error
}
