package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 同じ商品を含むトランザクション同士でデッドロックしないよう、常にid昇順でロックする
func (r *InventoryGormRepository) LockProducts(ctx context.Context, productIDs []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var ps []model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", productIDs).
		Order("id asc").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		out[p.ID] = p
	}
	return out, nil
}

func (r *InventoryGormRepository) stock(ctx context.Context, productID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID)
}

func (r *InventoryGormRepository) SetStock(ctx context.Context, productID int64, stock int64) error {
	res := r.stock(ctx, productID).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ロック済みでも条件つきで減らす（CHECK制約に当てない）
func (r *InventoryGormRepository) Reserve(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.stock(ctx, productID).
		Where("stock >= ?", qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *InventoryGormRepository) Release(ctx context.Context, productID int64, qty int64) error {
	res := r.stock(ctx, productID).Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) RecordAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}
