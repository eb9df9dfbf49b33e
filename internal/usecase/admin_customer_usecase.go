package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminCustomerUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	orders    repo.OrderRepository
}

func NewAdminCustomerUsecase(tx repo.TransactionManager, customers repo.CustomerRepository, orders repo.OrderRepository) *AdminCustomerUsecase {
	return &AdminCustomerUsecase{tx: tx, customers: customers, orders: orders}
}

type AdminCustomerDetail struct {
	Customer model.Customer `json:"customer"`
	Orders   []OrderOutput  `json:"orders"`
}

func (u *AdminCustomerUsecase) List(ctx context.Context) ([]model.CustomerSummary, error) {
	out, err := u.customers.ListSummaries(ctx)
	if err != nil {
		return nil, dbError(ctx, "admin_customer.list", err)
	}
	return out, nil
}

func (u *AdminCustomerUsecase) Get(ctx context.Context, id int64) (AdminCustomerDetail, error) {
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return AdminCustomerDetail{}, errNotFound("customer")
	}
	if err != nil {
		return AdminCustomerDetail{}, dbError(ctx, "admin_customer.get", err)
	}
	orders, err := u.orders.ListByCustomerID(ctx, id)
	if err != nil {
		return AdminCustomerDetail{}, dbError(ctx, "admin_customer.orders", err)
	}
	return AdminCustomerDetail{Customer: c, Orders: toOrderOutputs(orders)}, nil
}

// 注文は顧客名などのスナップショットごと残す
func (u *AdminCustomerUsecase) Delete(ctx context.Context, id int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().DetachCustomer(ctx, id); err != nil {
			return err
		}
		if err := r.Reviews().DeleteByCustomer(ctx, id); err != nil {
			return err
		}
		if err := r.Loves().DeleteByCustomer(ctx, id); err != nil {
			return err
		}
		err := r.Customers().Delete(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("customer")
		}
		return err
	})
	return txError(ctx, "admin_customer.delete", err)
}
