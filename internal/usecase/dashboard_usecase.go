package usecase

import (
	"context"

	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardRecentOrders = 20

type DashboardUsecase struct {
	products  repo.ProductRepository
	orders    repo.OrderRepository
	customers repo.CustomerRepository
}

func NewDashboardUsecase(products repo.ProductRepository, orders repo.OrderRepository, customers repo.CustomerRepository) *DashboardUsecase {
	return &DashboardUsecase{products: products, orders: orders, customers: customers}
}

type DashboardOutput struct {
	ProductCount  int64            `json:"product_count"`
	OrderCount    int64            `json:"order_count"`
	CustomerCount int64            `json:"customer_count"`
	Revenue       decimal.Decimal  `json:"revenue"`
	RecentOrders  []OrderOutput    `json:"recent_orders"`
	Products      AdminProductList `json:"products"`
}

// 売上は確定済み注文（processing/shipped/delivered）の合計
func (u *DashboardUsecase) Summary(ctx context.Context, page int) (DashboardOutput, error) {
	var out DashboardOutput
	var err error

	if out.ProductCount, err = u.products.Count(ctx); err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.products", err)
	}
	if out.OrderCount, err = u.orders.Count(ctx); err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.orders", err)
	}
	if out.CustomerCount, err = u.customers.Count(ctx); err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.customers", err)
	}
	if out.Revenue, err = u.orders.SumConfirmedTotal(ctx); err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.revenue", err)
	}

	recent, err := u.orders.ListRecent(ctx, dashboardRecentOrders)
	if err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.recent", err)
	}
	out.RecentOrders = toOrderOutputs(recent)

	page = max(1, page)
	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: shopPageSize})
	if err != nil {
		return DashboardOutput{}, dbError(ctx, "dashboard.product_list", err)
	}
	out.Products = AdminProductList{Products: items, Page: page, TotalPages: totalPages(total, shopPageSize)}
	return out, nil
}
