package usecase

import (
	"context"
	"errors"

	repo "storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
)

// CartUsecase はセッション上のカートを扱う。DBには保存しない。
// 受け取ったlinesは書き換えず、新しいスライスを返す。
type CartUsecase struct {
	productRepo repo.ProductRepository
}

func NewCartUsecase(productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{productRepo: productRepo}
}

type CartItemView struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items []CartItemView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// View は現在の商品情報でカートを組み立てる。消えた商品の行は出さない
func (u *CartUsecase) View(ctx context.Context, lines []session.CartLine) (CartView, error) {
	out := CartView{Items: []CartItemView{}, Total: decimal.Zero}
	if len(lines) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartView{}, dbError(ctx, "cart.view", err)
	}
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	for _, l := range lines {
		i, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		p := products[i]
		sub := p.Price.Mul(decimal.NewFromInt(l.Quantity))
		out.Items = append(out.Items, CartItemView{
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			Stock:     p.Stock,
			Quantity:  l.Quantity,
			Subtotal:  sub,
		})
		out.Total = out.Total.Add(sub)
	}
	return out, nil
}

// Add は数量を在庫で頭打ちにして追加する（同一商品は加算）
func (u *CartUsecase) Add(ctx context.Context, lines []session.CartLine, productID int64, qty int64) ([]session.CartLine, error) {
	if productID <= 0 {
		return nil, errValidation("invalid product_id")
	}
	qty = max(1, qty)

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("product")
	}
	if err != nil {
		return nil, dbError(ctx, "cart.add", err)
	}
	if p.Stock <= 0 {
		return nil, errInsufficientStock(p.Name)
	}

	out := append([]session.CartLine(nil), lines...)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = min(out[i].Quantity+qty, p.Stock)
			return out, nil
		}
	}
	return append(out, session.CartLine{ProductID: productID, Quantity: min(qty, p.Stock)}), nil
}

// Update は0以下なら行を消し、それ以外は1から在庫までに収める
func (u *CartUsecase) Update(ctx context.Context, lines []session.CartLine, productID int64, qty int64) ([]session.CartLine, error) {
	if qty <= 0 {
		return Remove(lines, productID), nil
	}

	maxStock := qty
	p, err := u.productRepo.FindByID(ctx, productID)
	switch {
	case err == nil:
		maxStock = p.Stock
	case errors.Is(err, repo.ErrNotFound):
		// 商品が無ければ数量はそのまま
	default:
		return nil, dbError(ctx, "cart.update", err)
	}

	out := append([]session.CartLine(nil), lines...)
	for i := range out {
		if out[i].ProductID == productID {
			// 在庫0でも1は残す。チェックアウトで在庫不足として弾く
			out[i].Quantity = max(min(qty, maxStock), 1)
		}
	}
	return out, nil
}

func Remove(lines []session.CartLine, productID int64) []session.CartLine {
	out := make([]session.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}
