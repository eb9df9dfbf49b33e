package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ReviewRepository interface {
	// 同じ商品に2件目はErrDuplicate
	Create(ctx context.Context, r model.Review) error
	ListByProduct(ctx context.Context, productID int64) ([]model.ReviewView, error)
	// 件数と平均評価
	Stats(ctx context.Context, productID int64) (int64, float64, error)
	HasReviewed(ctx context.Context, productID, customerID int64) (bool, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]model.ReviewView, error)
	// 本人のレビューだけ更新・削除する。対象が無ければfalse
	UpdateOwned(ctx context.Context, id, customerID int64, rating int, comment string) (bool, error)
	DeleteOwned(ctx context.Context, id, customerID int64) (bool, error)

	// 管理画面用。ratingがnilなら全件
	ListAdmin(ctx context.Context, rating *int) ([]model.ReviewView, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProduct(ctx context.Context, productID int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) error
}

type LoveRepository interface {
	// いいねを切り替えて、切り替え後の状態を返す
	Toggle(ctx context.Context, productID, customerID int64) (bool, error)
	Count(ctx context.Context, productID int64) (int64, error)
	Exists(ctx context.Context, productID, customerID int64) (bool, error)
	DeleteByProduct(ctx context.Context, productID int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) error
}
