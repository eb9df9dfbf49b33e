package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "storefront/internal/repository"
)

// OrderUsecase は購入者向けの注文参照
type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems}
}

// Confirmation は注文完了画面用。ログイン中の顧客と注文の顧客が違えば404
func (u *OrderUsecase) Confirmation(ctx context.Context, viewerCustomerID int64, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, errNotFound("order")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, errNotFound("order")
	}
	if err != nil {
		return OrderOutput{}, dbError(ctx, "order.confirmation", err)
	}

	// 他人の注文は存在しない扱い
	if viewerCustomerID > 0 && o.CustomerID != nil && *o.CustomerID != viewerCustomerID {
		return OrderOutput{}, errNotFound("order")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, dbError(ctx, "order.confirmation_items", err)
	}
	return toOrderOutput(o, items), nil
}

// ListMine は自分の注文（新しい順）
func (u *OrderUsecase) ListMine(ctx context.Context, customerID int64) ([]OrderOutput, error) {
	if customerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	orders, err := u.orders.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, dbError(ctx, "order.list_mine", err)
	}
	return toOrderOutputs(orders), nil
}
