package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/messaging"
	repo "storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
)

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	cart      *CartUsecase
	events    messaging.Publisher
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	cart *CartUsecase,
	events messaging.Publisher,
) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, customers: customers, cart: cart, events: events}
}

type PlaceOrderInput struct {
	CustomerID int64
	Lines      []session.CartLine
	// 空なら顧客の登録住所
	Address string
}

type CheckoutView struct {
	Cart     CartView       `json:"cart"`
	Customer model.Customer `json:"customer"`
}

// Preview は GET /orders/checkout の表示用
func (u *CheckoutUsecase) Preview(ctx context.Context, customerID int64, lines []session.CartLine) (CheckoutView, error) {
	if customerID <= 0 {
		return CheckoutView{}, errUnauthenticated()
	}
	if len(lines) == 0 {
		return CheckoutView{}, errEmptyCart()
	}
	c, err := u.findCustomer(ctx, customerID)
	if err != nil {
		return CheckoutView{}, err
	}
	view, err := u.cart.View(ctx, lines)
	if err != nil {
		return CheckoutView{}, err
	}
	return CheckoutView{Cart: view, Customer: c}, nil
}

// PlaceOrder はカートを注文にする。
// 商品行をロックして在庫を確認するが、在庫は減らさない（確定時に減らす）。
// 失敗したときは何も残らない。カートを空にするのは呼び出し側（commit後）。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (OrderOutput, error) {
	if in.CustomerID <= 0 {
		return OrderOutput{}, errUnauthenticated()
	}
	if len(in.Lines) == 0 {
		return OrderOutput{}, errEmptyCart()
	}
	need := make(map[int64]int64, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID <= 0 || l.Quantity <= 0 {
			return OrderOutput{}, errValidation("invalid cart line")
		}
		need[l.ProductID] += l.Quantity
	}

	customer, err := u.findCustomer(ctx, in.CustomerID)
	if err != nil {
		return OrderOutput{}, err
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		address = customer.Address
	}

	// ロック順を揃えるためid昇順
	ids := make([]int64, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		locked, err := r.Inventory().LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(in.Lines))
		total := decimal.Zero
		for _, l := range in.Lines {
			p, ok := locked[l.ProductID]
			if !ok {
				return errNotFound("product")
			}
			if p.Stock < need[p.ID] {
				return errInsufficientStock(p.Name)
			}

			productID := p.ID
			items = append(items, model.OrderItem{
				ProductID:           &productID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            l.Quantity,
			})
			total = total.Add(p.Price.Mul(decimal.NewFromInt(l.Quantity)))
		}

		customerID := customer.ID
		order := model.Order{
			CustomerID:      &customerID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerAddress: address,
			Total:           total,
			Status:          model.OrderStatusPending,
			CreatedAt:       time.Now(),
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateSnapshots(ctx, orderID, items); err != nil {
			return err
		}

		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, txError(ctx, "checkout.place_order", err)
	}

	publishEvent(ctx, u.events, messaging.TopicOrderPlaced, out.ID, messaging.OrderPlaced{
		OrderID:    out.ID,
		CustomerID: customer.ID,
		Total:      out.Total,
		Items:      len(out.Items),
		PlacedAt:   out.CreatedAt,
	})
	return out, nil
}

func (u *CheckoutUsecase) findCustomer(ctx context.Context, id int64) (model.Customer, error) {
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, errUnauthenticated()
	}
	if err != nil {
		return model.Customer{}, dbError(ctx, "checkout.find_customer", err)
	}
	return c, nil
}

// ブローカーが落ちていてもレスポンスはこの時間以上待たせない
var publishTimeout = 3 * time.Second

// イベント送信はcommit後のベストエフォート。失敗してもリクエストは成功のまま
func publishEvent(ctx context.Context, p messaging.Publisher, topic string, orderID int64, event any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(pctx, topic, strconv.FormatInt(orderID, 10), event); err != nil {
		slog.WarnContext(ctx, "publish event failed", "topic", topic, "order_id", orderID, "err", err)
	}
}
