package usecase

import (
	"context"
	"errors"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 明細から商品IDごとの必要数を集計する。商品が削除された明細（ProductID=nil）は除く
func quantitiesByProduct(items []model.OrderItem) ([]int64, map[int64]int64) {
	need := make(map[int64]int64, len(items))
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		need[*it.ProductID] += it.Quantity
	}
	ids := make([]int64, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, need
}

// 確定に入るとき在庫を減らす。1商品でも足りなければErrInsufficientStockで全体を戻す
func reserveStock(ctx context.Context, r repo.TxRepos, orderID int64, actorAdminID int64, reason string, items []model.OrderItem) error {
	ids, need := quantitiesByProduct(items)

	locked, err := r.Inventory().LockProducts(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		p, ok := locked[id]
		if !ok {
			// 明細より後に商品が消えた
			continue
		}
		if p.Stock < need[id] {
			return errInsufficientStock(p.Name)
		}
		ok, err := r.Inventory().Reserve(ctx, id, need[id])
		if err != nil {
			return err
		}
		if !ok {
			return errInsufficientStock(p.Name)
		}
		if err := r.Inventory().RecordAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   id,
			AdminUserID: actorAdminID,
			OrderID:     &orderID,
			Delta:       -need[id],
			Reason:      reason,
		}); err != nil {
			return err
		}
	}
	return nil
}

// 確定から外れるとき（削除含む）在庫を戻す
func releaseStock(ctx context.Context, r repo.TxRepos, orderID int64, actorAdminID int64, reason string, items []model.OrderItem) error {
	ids, need := quantitiesByProduct(items)

	locked, err := r.Inventory().LockProducts(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			continue
		}
		if err := r.Inventory().Release(ctx, id, need[id]); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return err
		}
		if err := r.Inventory().RecordAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   id,
			AdminUserID: actorAdminID,
			OrderID:     &orderID,
			Delta:       need[id],
			Reason:      reason,
		}); err != nil {
			return err
		}
	}
	return nil
}
