package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// InventoryRepository は products.stock を変える唯一の入口。
// どれもTxReposから取り出して、同じトランザクションの中で使う。
type InventoryRepository interface {
	// 商品行をid昇順にFOR UPDATEでロックする。存在しないidは結果に含まれない
	LockProducts(ctx context.Context, productIDs []int64) (map[int64]model.Product, error)

	// 管理画面からの直接編集
	SetStock(ctx context.Context, productID int64, stock int64) error

	// stock >= qty のときだけ減らす。足りなければfalse
	Reserve(ctx context.Context, productID int64, qty int64) (bool, error)
	Release(ctx context.Context, productID int64, qty int64) error

	RecordAdjustment(ctx context.Context, adj model.InventoryAdjustment) error
}
