package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page         int
	Limit        int
	CategorySlug string
	// name/descriptionの部分一致
	Q           string
	InStockOnly bool
}

// 商品の永続化（保存・取得）だけを約束。在庫の増減はInventoryRepository。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.ProductWithCategory, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindWithCategory(ctx context.Context, id int64) (model.ProductWithCategory, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// stock以外を更新
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
	// カテゴリ削除時に参照を外す
	DetachCategory(ctx context.Context, categoryID int64) error
}
