package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/messaging"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditRepo  repo.AuditLogRepository
	events     messaging.Publisher
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	auditRepo repo.AuditLogRepository,
	events messaging.Publisher,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, orderItems: orderItems, auditRepo: auditRepo, events: events}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminOrderList struct {
	Orders   []OrderOutput `json:"orders"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Statuses []string      `json:"statuses"`
}

type AdminOrderDetail struct {
	Order    OrderOutput      `json:"order"`
	Statuses []string         `json:"statuses"`
	History  []model.AuditLog `json:"history"`
}

func statusNames() []string {
	out := make([]string, 0, len(model.OrderStatuses))
	for _, s := range model.OrderStatuses {
		out = append(out, string(s))
	}
	return out
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderList, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderList{}, dbError(ctx, "admin_order.list", err)
	}
	return AdminOrderList{Orders: toOrderOutputs(orders), Total: total, Page: f.Page, Statuses: statusNames()}, nil
}

// 注文詳細（明細と操作履歴つき）
func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (AdminOrderDetail, error) {
	if orderID <= 0 {
		return AdminOrderDetail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return AdminOrderDetail{}, errNotFound("order")
	}
	if err != nil {
		return AdminOrderDetail{}, dbError(ctx, "admin_order.get", err)
	}
	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return AdminOrderDetail{}, dbError(ctx, "admin_order.get_items", err)
	}

	history, err := u.auditRepo.ListForResource(ctx, model.AuditResourceOrder, orderID)
	if err != nil {
		return AdminOrderDetail{}, dbError(ctx, "admin_order.history", err)
	}

	return AdminOrderDetail{Order: toOrderOutput(o, items), Statuses: statusNames(), History: history}, nil
}

// UpdateStatus は注文行をロックしてから条件付きでstatusを更新する。
// 確定集合への出入りで在庫を減らす/戻す。全部同じトランザクション。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminID <= 0 {
		return errUnauthenticated()
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	to := model.OrderStatus(strings.TrimSpace(in.Status))
	if !to.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var from model.OrderStatus
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order")
		}
		if err != nil {
			return err
		}
		from = o.Status

		// すでに同じなら何もしない
		if from == to {
			return nil
		}

		ok, err := r.Orders().UpdateStatusIf(ctx, orderID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order status was changed by another request")
		}

		switch model.StockEffectOf(from, to) {
		case model.StockEffectReserve:
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := reserveStock(ctx, r, orderID, actorAdminID, model.OrderAdjustReason(orderID, string(to)), items); err != nil {
				return err
			}
		case model.StockEffectRelease:
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := releaseStock(ctx, r, orderID, actorAdminID, model.OrderAdjustReason(orderID, string(to)), items); err != nil {
				return err
			}
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actorAdminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			Before:       model.AuditJSON(map[string]string{"status": string(from)}),
			After:        model.AuditJSON(map[string]string{"status": string(to)}),
		})
	})
	if err != nil {
		return txError(ctx, "admin_order.update_status", err)
	}

	if from != to {
		publishEvent(ctx, u.events, messaging.TopicOrderStatusChanged, orderID, messaging.OrderStatusChanged{
			OrderID:   orderID,
			From:      string(from),
			To:        string(to),
			AdminID:   actorAdminID,
			ChangedAt: time.Now(),
		})
	}
	return nil
}

// Delete は確定済みなら在庫を戻してから明細と注文を消す。取り消しはできない。
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminID int64, orderID int64) error {
	if actorAdminID <= 0 {
		return errUnauthenticated()
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var deleted model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order")
		}
		if err != nil {
			return err
		}
		deleted = o

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status.IsConfirmed() {
			if err := releaseStock(ctx, r, orderID, actorAdminID, model.OrderAdjustReason(orderID, "deleted"), items); err != nil {
				return err
			}
		}

		if err := r.OrderItems().DeleteForOrder(ctx, orderID); err != nil {
			return err
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actorAdminID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			Before:       model.AuditJSON(toOrderOutput(o, items)),
		})
	})
	if err != nil {
		return txError(ctx, "admin_order.delete", err)
	}

	publishEvent(ctx, u.events, messaging.TopicOrderDeleted, orderID, messaging.OrderDeleted{
		OrderID:   orderID,
		Status:    string(deleted.Status),
		Released:  deleted.Status.IsConfirmed(),
		AdminID:   actorAdminID,
		DeletedAt: time.Now(),
	})
	return nil
}
