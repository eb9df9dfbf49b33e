package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

const reviewViewColumns = "r.*, COALESCE(p.name, '') AS product_name, COALESCE(cu.name, '') AS customer_name"

func (r *ReviewGormRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_reviews AS r").
		Select(reviewViewColumns).
		Joins("LEFT JOIN products AS p ON p.id = r.product_id").
		Joins("LEFT JOIN customers AS cu ON cu.id = r.customer_id")
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) error {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *ReviewGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.ReviewView, error) {
	var out []model.ReviewView
	err := r.views(ctx).Where("r.product_id = ?", productID).Order("r.created_at desc").Scan(&out).Error
	if err != nil {
		return []model.ReviewView{}, err
	}
	return out, nil
}

func (r *ReviewGormRepository) Stats(ctx context.Context, productID int64) (int64, float64, error) {
	var row struct {
		Cnt int64
		Avg float64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*) AS cnt, COALESCE(AVG(rating), 0) AS avg").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Cnt, row.Avg, nil
}

func (r *ReviewGormRepository) HasReviewed(ctx context.Context, productID, customerID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewGormRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.ReviewView, error) {
	var out []model.ReviewView
	err := r.views(ctx).Where("r.customer_id = ?", customerID).Order("r.created_at desc").Scan(&out).Error
	if err != nil {
		return []model.ReviewView{}, err
	}
	return out, nil
}

func (r *ReviewGormRepository) UpdateOwned(ctx context.Context, id, customerID int64, rating int, comment string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Updates(map[string]interface{}{"rating": rating, "comment": comment})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReviewGormRepository) DeleteOwned(ctx context.Context, id, customerID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&model.Review{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReviewGormRepository) ListAdmin(ctx context.Context, rating *int) ([]model.ReviewView, error) {
	q := r.views(ctx)
	if rating != nil {
		q = q.Where("r.rating = ?", *rating)
	}
	var out []model.ReviewView
	if err := q.Order("r.created_at desc").Scan(&out).Error; err != nil {
		return []model.ReviewView{}, err
	}
	return out, nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) DeleteByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Review{}).Error
}

func (r *ReviewGormRepository) DeleteByCustomer(ctx context.Context, customerID int64) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&model.Review{}).Error
}

type LoveGormRepository struct {
	db *gorm.DB
}

func NewLoveGormRepository(db *gorm.DB) *LoveGormRepository {
	return &LoveGormRepository{db: db}
}

// 既にあれば消す、無ければ作る
func (r *LoveGormRepository) Toggle(ctx context.Context, productID, customerID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		Delete(&model.ProductLove{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	love := model.ProductLove{ProductID: productID, CustomerID: customerID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&love).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *LoveGormRepository) Count(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductLove{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *LoveGormRepository) Exists(ctx context.Context, productID, customerID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductLove{}).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		Count(&n).Error
	return n > 0, err
}

func (r *LoveGormRepository) DeleteByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.ProductLove{}).Error
}

func (r *LoveGormRepository) DeleteByCustomer(ctx context.Context, customerID int64) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&model.ProductLove{}).Error
}
