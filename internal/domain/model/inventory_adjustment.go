package model

import (
	"strconv"
	"time"
)

// 管理画面から在庫を直接書き換えたとき
const AdjustReasonManualEdit = "manual edit"

// OrderAdjustReason は注文起因の調整理由（"order #12 processing"）
func OrderAdjustReason(orderID int64, event string) string {
	return "order #" + strconv.FormatInt(orderID, 10) + " " + event
}

// InventoryAdjustment は在庫の増減1回分。Deltaは減らしたら負
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	AdminUserID int64     `gorm:"not null;index" json:"admin_user_id"`
	OrderID     *int64    `gorm:"index" json:"order_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
