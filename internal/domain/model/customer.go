package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入者アカウント
type Customer struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Address      string    `gorm:"type:text;not null;default:''" json:"address"`
	PasswordHash string    `gorm:"column:password_hash;not null;default:''" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// 管理画面の顧客一覧用
type CustomerSummary struct {
	Customer
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}
