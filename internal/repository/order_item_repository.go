package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文明細は商品名と単価のスナップショット。作成後は書き換えない
type OrderItemRepository interface {
	// itemsのOrderIDはorderIDで上書きする
	CreateSnapshots(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	DeleteForOrder(ctx context.Context, orderID int64) error
	// 商品削除時に参照だけ外す
	DetachProduct(ctx context.Context, productID int64) error
}
