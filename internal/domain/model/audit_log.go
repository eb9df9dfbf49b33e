package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
)

type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceOrder   AuditResourceType = "order"
)

// AuditLog は管理者の変更操作1回分。
// Before/Afterは変更前後の値（削除ならAfterは空）
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorAdminID int64             `gorm:"not null;index" json:"actor_admin_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index:idx_audit_resource" json:"resource_id"`
	Before       datatypes.JSON    `gorm:"type:jsonb" json:"before"`
	After        datatypes.JSON    `gorm:"type:jsonb" json:"after"`
	CreatedAt    time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}

// AuditJSON はBefore/After用。nilや変換できない値は空のまま
func AuditJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
