package usecase

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

// 使わないrepoはnilのまま
type TxReposMock struct {
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

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }
func (r *TxReposMock) Customers() repo.CustomerRepository   { return r.customers }
func (r *TxReposMock) Categories() repo.CategoryRepository  { return r.categories }
func (r *TxReposMock) Reviews() repo.ReviewRepository       { return r.reviews }
func (r *TxReposMock) Loves() repo.LoveRepository           { return r.loves }
func (r *TxReposMock) Roles() repo.RoleRepository           { return r.roles }
func (r *TxReposMock) AdminUsers() repo.AdminUserRepository { return r.adminUsers }

// =====================
// Repository mocks
// 使わないメソッドは埋め込みinterface（nil）に任せる。呼ばれたらpanicする
// =====================

type OrderRepoMock struct {
	mock.Mock
	repo.OrderRepository
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) DetachCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

type InventoryRepoMock struct {
	mock.Mock
	repo.InventoryRepository
}

func (m *InventoryRepoMock) LockProducts(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).(map[int64]model.Product)
	return p, args.Error(1)
}

type ProductRepoMock struct {
	mock.Mock
	repo.ProductRepository
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepoMock) DetachCategory(ctx context.Context, categoryID int64) error {
	return m.Called(ctx, categoryID).Error(0)
}

type OrderItemRepoMock struct {
	mock.Mock
	repo.OrderItemRepository
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DetachProduct(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

type CustomerRepoMock struct {
	mock.Mock
	repo.CustomerRepository
}

func (m *CustomerRepoMock) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 1
	}
	return args.Error(0)
}

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) UpdateProfile(ctx context.Context, id int64, name, email, address string) error {
	return m.Called(ctx, id, name, email, address).Error(0)
}

func (m *CustomerRepoMock) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *CustomerRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type CategoryRepoMock struct {
	mock.Mock
	repo.CategoryRepository
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ReviewRepoMock struct {
	mock.Mock
	repo.ReviewRepository
}

func (m *ReviewRepoMock) Create(ctx context.Context, r model.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReviewRepoMock) HasReviewed(ctx context.Context, productID, customerID int64) (bool, error) {
	args := m.Called(ctx, productID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) UpdateOwned(ctx context.Context, id, customerID int64, rating int, comment string) (bool, error) {
	args := m.Called(ctx, id, customerID, rating, comment)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) DeleteOwned(ctx context.Context, id, customerID int64) (bool, error) {
	args := m.Called(ctx, id, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) ListAdmin(ctx context.Context, rating *int) ([]model.ReviewView, error) {
	args := m.Called(ctx, rating)
	out, _ := args.Get(0).([]model.ReviewView)
	return out, args.Error(1)
}

func (m *ReviewRepoMock) DeleteByProduct(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *ReviewRepoMock) DeleteByCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

type LoveRepoMock struct {
	mock.Mock
	repo.LoveRepository
}

func (m *LoveRepoMock) Toggle(ctx context.Context, productID, customerID int64) (bool, error) {
	args := m.Called(ctx, productID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *LoveRepoMock) DeleteByProduct(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *LoveRepoMock) DeleteByCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

type RoleRepoMock struct {
	mock.Mock
	repo.RoleRepository
}

func (m *RoleRepoMock) FindByID(ctx context.Context, id int64) (model.Role, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(model.Role)
	return r, args.Error(1)
}

func (m *RoleRepoMock) Create(ctx context.Context, r *model.Role) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil {
		r.ID = 3
	}
	return args.Error(0)
}

func (m *RoleRepoMock) Update(ctx context.Context, r model.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *RoleRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RoleRepoMock) SetPermissions(ctx context.Context, roleID int64, ids []int64) error {
	return m.Called(ctx, roleID, ids).Error(0)
}

func (m *RoleRepoMock) PermissionKeys(ctx context.Context, roleID int64) ([]string, error) {
	args := m.Called(ctx, roleID)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

type AdminUserRepoMock struct {
	mock.Mock
	repo.AdminUserRepository
}

func (m *AdminUserRepoMock) FindByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(model.AdminUser)
	return u, args.Error(1)
}

func (m *AdminUserRepoMock) Create(ctx context.Context, u *model.AdminUser) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 5
	}
	return args.Error(0)
}

func (m *AdminUserRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *AdminUserRepoMock) DetachRole(ctx context.Context, roleID int64) error {
	return m.Called(ctx, roleID).Error(0)
}

// bcryptを回さないHasher
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Verify(plain, hashed string) bool  { return hashed != "" && hashed == "h:"+plain }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
