package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	// 在庫は0未満にならない（受注確定時に減らし、確定解除で戻す）
	Stock      int64     `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID *int64    `gorm:"index" json:"category_id"`
	ImageURL   string    `gorm:"type:text;not null;default:'/images/placeholder.png'" json:"image_url"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// 一覧表示用（カテゴリ名つき）
type ProductWithCategory struct {
	Product
	CategoryName string `json:"category_name"`
	CategorySlug string `json:"category_slug"`
}
