package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// memDB はテスト用のインメモリDB。
// FOR UPDATEは行ごとのロックで再現し、トランザクションが失敗したら変更を巻き戻す。
type memDB struct {
	mu sync.Mutex

	products    map[int64]model.Product
	customers   map[int64]model.Customer
	orders      map[int64]model.Order
	items       map[int64][]model.OrderItem
	adjustments []model.InventoryAdjustment
	audits      []model.AuditLog
	nextID      int64

	locks map[string]chan struct{}

	// 指定した操作名でエラーを返す（ロールバック確認用）
	failOn string
}

var errInjected = errors.New("injected failure")

func newMemDB() *memDB {
	return &memDB{
		products:  map[int64]model.Product{},
		customers: map[int64]model.Customer{},
		orders:    map[int64]model.Order{},
		items:     map[int64][]model.OrderItem{},
		nextID:    1000,
		locks:     map[string]chan struct{}{},
	}
}

func (db *memDB) addProduct(p model.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products[p.ID] = p
}

func (db *memDB) addCustomer(c model.Customer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.customers[c.ID] = c
}

func (db *memDB) stock(id int64) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id].Stock
}

func (db *memDB) order(id int64) (model.Order, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	return o, ok
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

func (db *memDB) adjustmentList() []model.InventoryAdjustment {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]model.InventoryAdjustment(nil), db.adjustments...)
}

func (db *memDB) auditList() []model.AuditLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]model.AuditLog(nil), db.audits...)
}

func (db *memDB) acquire(key string) {
	for {
		db.mu.Lock()
		ch, held := db.locks[key]
		if !held {
			db.locks[key] = make(chan struct{})
			db.mu.Unlock()
			return
		}
		db.mu.Unlock()
		<-ch
	}
}

func (db *memDB) release(key string) {
	db.mu.Lock()
	ch := db.locks[key]
	delete(db.locks, key)
	db.mu.Unlock()
	close(ch)
}

// WithinTx は repo.TransactionManager
func (db *memDB) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tx := &memTx{db: db, held: map[string]bool{}, inTx: true}
	err := fn(tx)
	if err != nil {
		db.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		db.mu.Unlock()
	}
	for key := range tx.held {
		db.release(key)
	}
	return err
}

// auto はトランザクション外の読み書き用
func (db *memDB) auto() *memTx {
	return &memTx{db: db, held: map[string]bool{}}
}

type memTx struct {
	db   *memDB
	held map[string]bool
	undo []func()
	inTx bool
}

func (tx *memTx) lock(key string) {
	if !tx.inTx || tx.held[key] {
		return
	}
	tx.db.acquire(key)
	tx.held[key] = true
}

// db.muを持った状態で呼ぶ
func (tx *memTx) onRollback(f func()) {
	if tx.inTx {
		tx.undo = append(tx.undo, f)
	}
}

func (tx *memTx) fail(op string) error {
	if tx.db.failOn == op {
		return errInjected
	}
	return nil
}

func (tx *memTx) Orders() repo.OrderRepository         { return memOrders{tx: tx} }
func (tx *memTx) OrderItems() repo.OrderItemRepository { return memOrderItems{tx: tx} }
func (tx *memTx) Products() repo.ProductRepository     { return memProducts{tx: tx} }
func (tx *memTx) Inventory() repo.InventoryRepository  { return memInventory{tx: tx} }
func (tx *memTx) AuditLogs() repo.AuditLogRepository   { return memAudit{tx: tx} }
func (tx *memTx) Customers() repo.CustomerRepository   { return memCustomers{tx: tx} }
func (tx *memTx) Categories() repo.CategoryRepository  { return nil }
func (tx *memTx) Reviews() repo.ReviewRepository       { return nil }
func (tx *memTx) Loves() repo.LoveRepository           { return nil }
func (tx *memTx) Roles() repo.RoleRepository           { return nil }
func (tx *memTx) AdminUsers() repo.AdminUserRepository { return nil }

// 使わないメソッドは埋め込んだnil interfaceのままにしておく（呼ばれたらpanic）

type memProducts struct {
	repo.ProductRepository
	tx *memTx
}

func (r memProducts) FindByID(_ context.Context, id int64) (model.Product, error) {
	r.tx.db.mu.Lock()
	defer r.tx.db.mu.Unlock()
	p, ok := r.tx.db.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) FindByIDs(_ context.Context, ids []int64) ([]model.Product, error) {
	r.tx.db.mu.Lock()
	defer r.tx.db.mu.Unlock()
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.tx.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Update(_ context.Context, p model.Product) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := r.tx.fail("Products.Update"); err != nil {
		return err
	}
	old, ok := db.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = old.Stock
	db.products[p.ID] = p
	r.tx.onRollback(func() { db.products[p.ID] = old })
	return nil
}

type memInventory struct {
	repo.InventoryRepository
	tx *memTx
}

func productKey(id int64) string { return "product:" + strconv.FormatInt(id, 10) }
func orderKey(id int64) string   { return "order:" + strconv.FormatInt(id, 10) }

func (r memInventory) LockProducts(_ context.Context, ids []int64) (map[int64]model.Product, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		r.tx.lock(productKey(id))
	}

	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make(map[int64]model.Product, len(sorted))
	for _, id := range sorted {
		if p, ok := db.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r memInventory) SetStock(_ context.Context, id int64, stock int64) error {
	return r.change(id, func(int64) (int64, bool) { return stock, true })
}

func (r memInventory) Reserve(_ context.Context, id int64, qty int64) (bool, error) {
	ok := true
	err := r.change(id, func(cur int64) (int64, bool) {
		if cur < qty {
			ok = false
			return cur, false
		}
		return cur - qty, true
	})
	return ok, err
}

func (r memInventory) Release(_ context.Context, id int64, qty int64) error {
	return r.change(id, func(cur int64) (int64, bool) { return cur + qty, true })
}

func (r memInventory) change(id int64, f func(cur int64) (int64, bool)) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	next, apply := f(p.Stock)
	if !apply {
		return nil
	}
	if next < 0 {
		return errors.New("stock check constraint")
	}
	prev := p.Stock
	p.Stock = next
	db.products[id] = p
	r.tx.onRollback(func() {
		q := db.products[id]
		q.Stock = prev
		db.products[id] = q
	})
	return nil
}

func (r memInventory) RecordAdjustment(_ context.Context, a model.InventoryAdjustment) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	n := len(db.adjustments)
	db.adjustments = append(db.adjustments, a)
	r.tx.onRollback(func() { db.adjustments = db.adjustments[:n] })
	return nil
}

type memOrders struct {
	repo.OrderRepository
	tx *memTx
}

func (r memOrders) FindByID(_ context.Context, id int64) (model.Order, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) FindByIDForUpdate(ctx context.Context, id int64) (model.Order, error) {
	r.tx.lock(orderKey(id))
	return r.FindByID(ctx, id)
}

func (r memOrders) Create(_ context.Context, o model.Order) (int64, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	o.ID = db.nextID
	db.orders[o.ID] = o
	r.tx.onRollback(func() { delete(db.orders, o.ID) })
	return o.ID, nil
}

func (r memOrders) UpdateStatusIf(_ context.Context, id int64, from, to model.OrderStatus) (bool, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	db.orders[id] = o
	r.tx.onRollback(func() {
		q := db.orders[id]
		q.Status = from
		db.orders[id] = q
	})
	return true, nil
}

func (r memOrders) Delete(_ context.Context, id int64) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(db.orders, id)
	r.tx.onRollback(func() { db.orders[id] = o })
	return nil
}

func (r memOrders) ListByCustomerID(_ context.Context, customerID int64) ([]model.Order, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.Order
	for _, o := range db.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memOrderItems struct {
	repo.OrderItemRepository
	tx *memTx
}

func (r memOrderItems) CreateSnapshots(_ context.Context, orderID int64, items []model.OrderItem) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := r.tx.fail("OrderItems.CreateSnapshots"); err != nil {
		return err
	}
	rows := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		db.nextID++
		it.ID = db.nextID
		it.OrderID = orderID
		rows = append(rows, it)
	}
	db.items[orderID] = rows
	r.tx.onRollback(func() { delete(db.items, orderID) })
	return nil
}

func (r memOrderItems) ListByOrderID(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]model.OrderItem(nil), db.items[orderID]...), nil
}

func (r memOrderItems) DeleteForOrder(_ context.Context, orderID int64) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	old := db.items[orderID]
	delete(db.items, orderID)
	r.tx.onRollback(func() { db.items[orderID] = old })
	return nil
}

type memAudit struct {
	repo.AuditLogRepository
	tx *memTx
}

func (r memAudit) Create(_ context.Context, l model.AuditLog) error {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := r.tx.fail("AuditLogs.Create"); err != nil {
		return err
	}
	n := len(db.audits)
	db.audits = append(db.audits, l)
	r.tx.onRollback(func() { db.audits = db.audits[:n] })
	return nil
}

func (r memAudit) ListForResource(_ context.Context, rt model.AuditResourceType, id int64) ([]model.AuditLog, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.AuditLog
	for _, l := range db.audits {
		if l.ResourceType == rt && l.ResourceID == id {
			out = append(out, l)
		}
	}
	return out, nil
}

type memCustomers struct {
	repo.CustomerRepository
	tx *memTx
}

func (r memCustomers) FindByID(_ context.Context, id int64) (model.Customer, error) {
	db := r.tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.customers[id]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}
