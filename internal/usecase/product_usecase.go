package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	shopPageSize    = 10
	featuredCount   = 6
	relatedCount    = 4
	defaultImageURL = "/images/placeholder.png"
)

func totalPages(total int64, size int) int {
	return int(math.Ceil(float64(total) / float64(size)))
}

type ProductUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	reviewRepo   repo.ReviewRepository
	loveRepo     repo.LoveRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	reviewRepo repo.ReviewRepository,
	loveRepo repo.LoveRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		loveRepo:     loveRepo,
	}
}

type HomeOutput struct {
	Categories []model.Category            `json:"categories"`
	Featured   []model.ProductWithCategory `json:"featured"`
}

// トップ：カテゴリと在庫ありの新着6件
func (u *ProductUsecase) Home(ctx context.Context) (HomeOutput, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return HomeOutput{}, dbError(ctx, "product.home_categories", err)
	}
	featured, _, err := u.productRepo.List(ctx, repo.ProductListQuery{Page: 1, Limit: featuredCount, InStockOnly: true})
	if err != nil {
		return HomeOutput{}, dbError(ctx, "product.home_featured", err)
	}
	return HomeOutput{Categories: cats, Featured: featured}, nil
}

// GET /shopの入力DTO
type ShopInput struct {
	Category string
	Search   string
	Page     int
}

type ShopOutput struct {
	Products        []model.ProductWithCategory `json:"products"`
	Categories      []model.Category            `json:"categories"`
	CurrentCategory string                      `json:"current_category"`
	Search          string                      `json:"search"`
	Page            int                         `json:"page"`
	TotalPages      int                         `json:"total_pages"`
}

func (u *ProductUsecase) Shop(ctx context.Context, in ShopInput) (ShopOutput, error) {
	page := max(1, in.Page)
	search := strings.TrimSpace(in.Search)
	if len(search) > 100 {
		return ShopOutput{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}

	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return ShopOutput{}, dbError(ctx, "product.shop_categories", err)
	}
	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:         page,
		Limit:        shopPageSize,
		CategorySlug: strings.TrimSpace(in.Category),
		Q:            search,
	})
	if err != nil {
		return ShopOutput{}, dbError(ctx, "product.shop", err)
	}

	return ShopOutput{
		Products:        items,
		Categories:      cats,
		CurrentCategory: in.Category,
		Search:          search,
		Page:            page,
		TotalPages:      totalPages(total, shopPageSize),
	}, nil
}

type ProductDetailOutput struct {
	Product          model.ProductWithCategory `json:"product"`
	Related          []model.Product           `json:"related"`
	Reviews          []model.ReviewView        `json:"reviews"`
	TotalReviews     int64                     `json:"total_reviews"`
	AvgRating        string                    `json:"avg_rating"`
	LoveCount        int64                     `json:"love_count"`
	CustomerLoved    bool                      `json:"customer_loved"`
	CustomerReviewed bool                      `json:"customer_reviewed"`
}

// viewerCustomerIDが0なら未ログイン
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64, viewerCustomerID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, errNotFound("product")
	}

	p, err := u.productRepo.FindWithCategory(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, errNotFound("product")
	}
	if err != nil {
		return ProductDetailOutput{}, dbError(ctx, "product.detail", err)
	}

	out := ProductDetailOutput{Product: p, Related: []model.Product{}}
	if p.CategoryID != nil {
		if out.Related, err = u.productRepo.ListRelated(ctx, *p.CategoryID, p.ID, relatedCount); err != nil {
			return ProductDetailOutput{}, dbError(ctx, "product.related", err)
		}
	}
	if out.Reviews, err = u.reviewRepo.ListByProduct(ctx, p.ID); err != nil {
		return ProductDetailOutput{}, dbError(ctx, "product.reviews", err)
	}

	count, avg, err := u.reviewRepo.Stats(ctx, p.ID)
	if err != nil {
		return ProductDetailOutput{}, dbError(ctx, "product.review_stats", err)
	}
	out.TotalReviews = count
	out.AvgRating = decimal.NewFromFloat(avg).StringFixed(1)

	if out.LoveCount, err = u.loveRepo.Count(ctx, p.ID); err != nil {
		return ProductDetailOutput{}, dbError(ctx, "product.love_count", err)
	}

	if viewerCustomerID > 0 {
		if out.CustomerLoved, err = u.loveRepo.Exists(ctx, p.ID, viewerCustomerID); err != nil {
			return ProductDetailOutput{}, dbError(ctx, "product.loved", err)
		}
		if out.CustomerReviewed, err = u.reviewRepo.HasReviewed(ctx, p.ID, viewerCustomerID); err != nil {
			return ProductDetailOutput{}, dbError(ctx, "product.reviewed", err)
		}
	}
	return out, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       int64
	CategoryID  *int64
	ImageURL    string
}

func (in AdminProductInput) validate() (decimal.Decimal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return decimal.Zero, errValidation("name required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return decimal.Zero, errValidation("invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, errValidation("price must be >= 0")
	}
	if in.Stock < 0 {
		return decimal.Zero, errValidation("stock must be >= 0")
	}
	return price.Round(2), nil
}

func (in AdminProductInput) imageURL() string {
	if s := strings.TrimSpace(in.ImageURL); s != "" {
		return s
	}
	return defaultImageURL
}

type AdminProductList struct {
	Products   []model.ProductWithCategory `json:"products"`
	Page       int                         `json:"page"`
	TotalPages int                         `json:"total_pages"`
}

func (u *ProductUsecase) AdminListProducts(ctx context.Context, page int) (AdminProductList, error) {
	page = max(1, page)
	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{Page: page, Limit: shopPageSize})
	if err != nil {
		return AdminProductList{}, dbError(ctx, "product.admin_list", err)
	}
	return AdminProductList{
		Products:   items,
		Page:       page,
		TotalPages: totalPages(total, shopPageSize),
	}, nil
}

func (u *ProductUsecase) AdminGetProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errNotFound("product")
	}
	if err != nil {
		return model.Product{}, dbError(ctx, "product.admin_get", err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, errUnauthenticated()
	}
	price, err := in.validate()
	if err != nil {
		return 0, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ImageURL:    in.imageURL(),
	})
	if err != nil {
		return 0, dbError(ctx, "product.admin_create", err)
	}
	return p.ID, nil
}

// AdminUpdateProduct は商品を更新する。在庫が変わったときは調整履歴と監査ログを残す
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return errUnauthenticated()
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	price, err := in.validate()
	if err != nil {
		return err
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）をロックして読む
		locked, err := r.Inventory().LockProducts(ctx, []int64{productID})
		if err != nil {
			return err
		}
		before, ok := locked[productID]
		if !ok {
			return errNotFound("product")
		}

		if err := r.Products().Update(ctx, model.Product{
			ID:          productID,
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       price,
			CategoryID:  in.CategoryID,
			ImageURL:    in.imageURL(),
		}); err != nil {
			return err
		}

		if before.Stock == in.Stock {
			return nil
		}

		//在庫の現在値を更新
		if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
			return err
		}
		//履歴を作成（差分）
		if err := r.Inventory().RecordAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       in.Stock - before.Stock,
			Reason:      model.AdjustReasonManualEdit,
		}); err != nil {
			return err
		}
		//監査ログを作成（在庫更新）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			Before:       model.AuditJSON(map[string]int64{"stock": before.Stock}),
			After:        model.AuditJSON(map[string]int64{"stock": in.Stock}),
		})
	})
	return txError(ctx, "product.admin_update", err)
}

// 商品削除。注文明細はスナップショットを残して参照だけ外す
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return errUnauthenticated()
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DetachProduct(ctx, productID); err != nil {
			return err
		}
		if err := r.Reviews().DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		if err := r.Loves().DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		err := r.Products().Delete(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product")
		}
		return err
	})
	return txError(ctx, "product.admin_delete", err)
}
