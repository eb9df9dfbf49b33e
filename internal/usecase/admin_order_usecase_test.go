package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// List tests
// =====================

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	uc := NewAdminOrderUsecase(new(TxManagerMock), nil, nil, nil, nil)

	out, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assert.Empty(t, out.Orders)
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidLimit(t *testing.T) {
	uc := NewAdminOrderUsecase(new(TxManagerMock), nil, nil, nil, nil)

	_, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 0})
	assertErrContains(t, err, "invalid limit")

	_, err = uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestAdminOrderUsecase_List_InvalidStatus(t *testing.T) {
	uc := NewAdminOrderUsecase(new(TxManagerMock), nil, nil, nil, nil)

	_, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "PAID"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminOrderUsecase_List_Success(t *testing.T) {
	ctx := context.Background()
	ordersRepo := new(OrderRepoMock)

	f := repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "shipped"}
	ordersRepo.On("ListAdmin", mock.Anything, f).Return([]model.Order{
		{ID: 10, Status: model.OrderStatusShipped},
		{ID: 11, Status: model.OrderStatusShipped},
	}, int64(2), nil)

	uc := NewAdminOrderUsecase(new(TxManagerMock), ordersRepo, nil, nil, nil)

	out, err := uc.List(ctx, f)
	require.NoError(t, err)
	assert.Len(t, out.Orders, 2)
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, []string{"pending", "processing", "shipped", "delivered", "cancelled"}, out.Statuses)

	ordersRepo.AssertExpectations(t)
}

// =====================
// UpdateStatus tests
// =====================

// 条件付き更新が0件ならConflictで、在庫には触らない
func TestAdminOrderUsecase_UpdateStatus_Conflict(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	invRepo := new(InventoryRepoMock)
	tx.Repos = &TxReposMock{orders: ordersRepo, inventory: invRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByIDForUpdate", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusPending}, nil)
	ordersRepo.On("UpdateStatusIf", mock.Anything, int64(1), model.OrderStatusPending, model.OrderStatusProcessing).
		Return(false, nil)

	uc := NewAdminOrderUsecase(tx, ordersRepo, nil, nil, nil)

	err := uc.UpdateStatus(ctx, 1, 1, AdminUpdateOrderStatusInput{Status: "processing"})
	assert.ErrorIs(t, err, ErrConflict)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	invRepo.AssertNotCalled(t, "LockProducts", mock.Anything, mock.Anything)
	ordersRepo.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_DBError_OnUpdate(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByIDForUpdate", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusShipped}, nil)
	ordersRepo.On("UpdateStatusIf", mock.Anything, int64(1), model.OrderStatusShipped, model.OrderStatusDelivered).
		Return(false, errors.New("db down"))

	uc := NewAdminOrderUsecase(tx, ordersRepo, nil, nil, nil)

	err := uc.UpdateStatus(ctx, 1, 1, AdminUpdateOrderStatusInput{Status: "delivered"})
	assert.ErrorIs(t, err, ErrInternal)
	assertErrContains(t, err, "db error")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidOrderID(t *testing.T) {
	uc := NewAdminOrderUsecase(new(TxManagerMock), nil, nil, nil, nil)

	err := uc.UpdateStatus(context.Background(), 1, 0, AdminUpdateOrderStatusInput{Status: "shipped"})
	assertErrContains(t, err, "invalid id")
}
