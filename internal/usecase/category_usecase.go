package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	nonSlugRe = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify は "Home & Garden" -> "home--garden"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRe.ReplaceAllString(s, "-")
	return nonSlugRe.ReplaceAllString(s, "")
}

type CategoryUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
}

func NewCategoryUsecase(tx repo.TransactionManager, categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{tx: tx, categories: categories}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, dbError(ctx, "category.list", err)
	}
	return cs, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if name == "" || slug == "" {
		return model.Category{}, errValidation("name required")
	}

	c, err := u.categories.Create(ctx, model.Category{Name: name, Slug: slug})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return model.Category{}, dbError(ctx, "category.create", err)
	}
	return c, nil
}

// 商品は残してカテゴリ参照だけ外す
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().DetachCategory(ctx, id); err != nil {
			return err
		}
		err := r.Categories().Delete(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("category")
		}
		return err
	})
	return txError(ctx, "category.delete", err)
}
