package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	auditLogs  repo.AuditLogRepository
	customers  repo.CustomerRepository
	categories repo.CategoryRepository
	reviews    repo.ReviewRepository
	loves      repo.LoveRepository
	roles      repo.RoleRepository
	adminUsers repo.AdminUserRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }
func (r *txReposGorm) Customers() repo.CustomerRepository   { return r.customers }
func (r *txReposGorm) Categories() repo.CategoryRepository  { return r.categories }
func (r *txReposGorm) Reviews() repo.ReviewRepository       { return r.reviews }
func (r *txReposGorm) Loves() repo.LoveRepository           { return r.loves }
func (r *txReposGorm) Roles() repo.RoleRepository           { return r.roles }
func (r *txReposGorm) AdminUsers() repo.AdminUserRepository { return r.adminUsers }

// NewRepos はdbを持ったrepository一式を作る。
// トランザクション外の参照系はこれを使う。
func NewRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
		products:   NewProductGormRepository(db),
		inventory:  NewInventoryGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
		customers:  NewCustomerGormRepository(db),
		categories: NewCategoryGormRepository(db),
		reviews:    NewReviewGormRepository(db),
		loves:      NewLoveGormRepository(db),
		roles:      NewRoleGormRepository(db),
		adminUsers: NewAdminUserGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返すかpanicしたらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewRepos(tx))
	})
}
