package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 管理画面で選べるステータス
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// 在庫を確保済みとみなすステータス（processing/shipped/delivered）
func (s OrderStatus) IsConfirmed() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// ステータス遷移に伴う在庫への影響
type StockEffect int

const (
	StockEffectNone StockEffect = iota
	StockEffectReserve
	StockEffectRelease
)

// 旧ステータスと新ステータスが確定集合に入っているかだけで決まる
func StockEffectOf(from, to OrderStatus) StockEffect {
	switch {
	case !from.IsConfirmed() && to.IsConfirmed():
		return StockEffectReserve
	case from.IsConfirmed() && !to.IsConfirmed():
		return StockEffectRelease
	default:
		return StockEffectNone
	}
}

// 注文。購入者情報は注文時点のスナップショット。statusのみ更新される。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      *int64          `gorm:"index" json:"customer_id"`
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerAddress string          `gorm:"type:text;not null;default:''" json:"customer_address"`
	Total           decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
