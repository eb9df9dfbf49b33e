//go:build integration

package repository

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	"storefront/internal/messaging"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	c, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := gorm.Open(pg.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, name, price string, stock int64) model.Product {
	t.Helper()
	p, err := NewProductGormRepository(gdb).Create(context.Background(), model.Product{
		Name: name, Price: decimal.RequireFromString(price), Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, gdb *gorm.DB, id int64) int64 {
	t.Helper()
	p, err := NewProductGormRepository(gdb).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestGorm_UniqueViolationIsDuplicate(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	customers := NewCustomerGormRepository(gdb)

	require.NoError(t, customers.Create(ctx, &model.Customer{Name: "Bob", Email: "bob@example.com"}))
	err := customers.Create(ctx, &model.Customer{Name: "Bobby", Email: "bob@example.com"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	cats := NewCategoryGormRepository(gdb)
	_, err = cats.Create(ctx, model.Category{Name: "Tea", Slug: "tea"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, model.Category{Name: "TEA", Slug: "tea"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestGorm_UpdateStatusIf(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)

	id, err := orders.Create(ctx, model.Order{CustomerName: "Bob", CustomerEmail: "bob@example.com", Status: model.OrderStatusPending})
	require.NoError(t, err)

	ok, err := orders.UpdateStatusIf(ctx, id, model.OrderStatusPending, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.True(t, ok)

	// 古いfromでは更新されない
	ok, err = orders.UpdateStatusIf(ctx, id, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	o, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, o.Status)
}

// ロック中の商品行は、先のトランザクションが終わるまで読めない
func TestGorm_LockProductsBlocks(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, gdb, "Tea", "12.50", 1)
	tm := NewTxManagerGorm(gdb)

	locked := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = tm.WithinTx(ctx, func(r repo.TxRepos) error {
			if _, err := r.Inventory().LockProducts(ctx, []int64{p.ID}); err != nil {
				return err
			}
			close(locked)
			<-release
			return r.Inventory().SetStock(ctx, p.ID, 0)
		})
	}()

	<-locked
	got := make(chan int64, 1)
	go func() {
		_ = tm.WithinTx(ctx, func(r repo.TxRepos) error {
			ps, err := r.Inventory().LockProducts(ctx, []int64{p.ID})
			if err != nil {
				return err
			}
			got <- ps[p.ID].Stock
			return nil
		})
	}()

	select {
	case <-got:
		t.Fatal("second lock acquired while the first tx was open")
	case <-time.After(300 * time.Millisecond):
	}
	close(release)
	wg.Wait()

	select {
	case s := <-got:
		assert.Equal(t, int64(0), s)
	case <-time.After(5 * time.Second):
		t.Fatal("second lock never acquired")
	}
}

// チェックアウトでは減らず、確定で減り、取り消しで戻る
func TestGorm_CheckoutAndLifecycle(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	tea := seedProduct(t, gdb, "Tea", "12.50", 5)
	mug := seedProduct(t, gdb, "Mug", "3.10", 5)

	repos := NewRepos(gdb)
	require.NoError(t, repos.Customers().Create(ctx, &model.Customer{Name: "Bob", Email: "bob@example.com", Address: "1 Main St"}))
	cust, err := repos.Customers().FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	tm := NewTxManagerGorm(gdb)
	events := messaging.NewLogPublisher(slog.Default())
	checkout := usecase.NewCheckoutUsecase(tm, repos.Customers(), usecase.NewCartUsecase(repos.Products()), events)
	admin := usecase.NewAdminOrderUsecase(tm, repos.Orders(), repos.OrderItems(), repos.AuditLogs(), events)

	out, err := checkout.PlaceOrder(ctx, usecase.PlaceOrderInput{
		CustomerID: cust.ID,
		Lines: []session.CartLine{
			{ProductID: tea.ID, Quantity: 3},
			{ProductID: mug.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "40.6", out.Total.String())
	assert.Equal(t, "1 Main St", out.CustomerAddress)
	assert.Equal(t, int64(5), stockOf(t, gdb, tea.ID))

	require.NoError(t, admin.UpdateStatus(ctx, 1, out.ID, usecase.AdminUpdateOrderStatusInput{Status: "processing"}))
	assert.Equal(t, int64(2), stockOf(t, gdb, tea.ID))
	assert.Equal(t, int64(4), stockOf(t, gdb, mug.ID))

	require.NoError(t, admin.UpdateStatus(ctx, 1, out.ID, usecase.AdminUpdateOrderStatusInput{Status: "cancelled"}))
	assert.Equal(t, int64(5), stockOf(t, gdb, tea.ID))
	assert.Equal(t, int64(5), stockOf(t, gdb, mug.ID))

	logs, err := repos.AuditLogs().ListForResource(ctx, model.AuditResourceOrder, out.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
}
