package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ReviewUsecase struct {
	reviews  repo.ReviewRepository
	loves    repo.LoveRepository
	products repo.ProductRepository
}

func NewReviewUsecase(reviews repo.ReviewRepository, loves repo.LoveRepository, products repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviews: reviews, loves: loves, products: products}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func (u *ReviewUsecase) ensureProduct(ctx context.Context, productID int64) error {
	_, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("product")
	}
	if err != nil {
		return dbError(ctx, "review.find_product", err)
	}
	return nil
}

// 1顧客1商品につき1件
func (u *ReviewUsecase) AddReview(ctx context.Context, customerID, productID int64, rating int, comment string) error {
	if customerID <= 0 {
		return errUnauthenticated()
	}
	if err := u.ensureProduct(ctx, productID); err != nil {
		return err
	}

	reviewed, err := u.reviews.HasReviewed(ctx, productID, customerID)
	if err != nil {
		return dbError(ctx, "review.has_reviewed", err)
	}
	if reviewed {
		return NewHTTPError(http.StatusConflict, "already reviewed")
	}
	if !validRating(rating) {
		return errValidation("rating must be 1..5")
	}

	err = u.reviews.Create(ctx, model.Review{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return NewHTTPError(http.StatusConflict, "already reviewed")
	}
	if err != nil {
		return dbError(ctx, "review.create", err)
	}
	return nil
}

// ToggleLove は切り替え後にいいね済みならtrue
func (u *ReviewUsecase) ToggleLove(ctx context.Context, customerID, productID int64) (bool, error) {
	if customerID <= 0 {
		return false, errUnauthenticated()
	}
	if err := u.ensureProduct(ctx, productID); err != nil {
		return false, err
	}
	loved, err := u.loves.Toggle(ctx, productID, customerID)
	if err != nil {
		return false, dbError(ctx, "review.toggle_love", err)
	}
	return loved, nil
}

func (u *ReviewUsecase) ListMine(ctx context.Context, customerID int64) ([]model.ReviewView, error) {
	if customerID <= 0 {
		return nil, errUnauthenticated()
	}
	out, err := u.reviews.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, dbError(ctx, "review.list_mine", err)
	}
	return out, nil
}

// 他人のレビューは存在しない扱い
func (u *ReviewUsecase) EditMine(ctx context.Context, customerID, reviewID int64, rating int, comment string) error {
	if customerID <= 0 {
		return errUnauthenticated()
	}
	if !validRating(rating) {
		return errValidation("rating must be 1..5")
	}
	ok, err := u.reviews.UpdateOwned(ctx, reviewID, customerID, rating, strings.TrimSpace(comment))
	if err != nil {
		return dbError(ctx, "review.edit_mine", err)
	}
	if !ok {
		return errNotFound("review")
	}
	return nil
}

func (u *ReviewUsecase) DeleteMine(ctx context.Context, customerID, reviewID int64) error {
	if customerID <= 0 {
		return errUnauthenticated()
	}
	ok, err := u.reviews.DeleteOwned(ctx, reviewID, customerID)
	if err != nil {
		return dbError(ctx, "review.delete_mine", err)
	}
	if !ok {
		return errNotFound("review")
	}
	return nil
}

func (u *ReviewUsecase) AdminList(ctx context.Context, rating *int) ([]model.ReviewView, error) {
	if rating != nil && !validRating(*rating) {
		return nil, errValidation("rating must be 1..5")
	}
	out, err := u.reviews.ListAdmin(ctx, rating)
	if err != nil {
		return nil, dbError(ctx, "review.admin_list", err)
	}
	return out, nil
}

func (u *ReviewUsecase) AdminDelete(ctx context.Context, reviewID int64) error {
	err := u.reviews.Delete(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("review")
	}
	if err != nil {
		return dbError(ctx, "review.admin_delete", err)
	}
	return nil
}
