package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 管理者操作の記録。変更と同じトランザクションで書く
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error

	// 対象（注文・商品）ごとの履歴。古い順
	ListForResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64) ([]model.AuditLog, error)
}
