package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

const productWithCategoryColumns = "p.*, COALESCE(c.name, '') AS category_name, COALESCE(c.slug, '') AS category_slug"

func (r *ProductGormRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products AS p").
		Joins("LEFT JOIN categories AS c ON c.id = p.category_id")
}

// カテゴリ絞り込み/在庫あり/ページング付きで新しい順に返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.ProductWithCategory, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	base := r.joined(ctx)
	if q.CategorySlug != "" {
		base = base.Where("c.slug = ?", q.CategorySlug)
	}
	// q name/descriptionを対象
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + kw + "%"
		base = base.Where("(p.name ILIKE ? OR p.description ILIKE ?)", like, like)
	}
	if q.InStockOnly {
		base = base.Where("p.stock > 0")
	}

	//total（件数）
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return []model.ProductWithCategory{}, 0, err
	}

	var items []model.ProductWithCategory
	offset := (q.Page - 1) * q.Limit
	err := base.Select(productWithCategoryColumns).
		Order("p.created_at desc").Order("p.id desc").
		Offset(offset).Limit(q.Limit).
		Scan(&items).Error
	if err != nil {
		return []model.ProductWithCategory{}, 0, err
	}
	return items, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindWithCategory(ctx context.Context, id int64) (model.ProductWithCategory, error) {
	var items []model.ProductWithCategory
	err := r.joined(ctx).Select(productWithCategoryColumns).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&items).Error
	if err != nil {
		return model.ProductWithCategory{}, err
	}
	if len(items) == 0 {
		return model.ProductWithCategory{}, repo.ErrNotFound
	}
	return items[0], nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var ps []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error; err != nil {
		return []model.Product{}, err
	}
	return ps, nil
}

// 同じカテゴリの商品（自分以外）
func (r *ProductGormRepository) ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Order("created_at desc").
		Limit(limit).
		Find(&ps).Error
	if err != nil {
		return []model.Product{}, err
	}
	return ps, nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新（在庫はInventory側で扱う）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"image_url":   p.ImageURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) DetachCategory(ctx context.Context, categoryID int64) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
}
