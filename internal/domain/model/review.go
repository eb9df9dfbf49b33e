package model

import "time"

// 商品レビュー（1購入者1商品につき1件）
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64     `gorm:"not null;uniqueIndex:idx_review_product_customer" json:"product_id"`
	CustomerID int64     `gorm:"not null;uniqueIndex:idx_review_product_customer;index" json:"customer_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text;not null;default:''" json:"comment"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string { return "product_reviews" }

// 表示用（商品名・購入者名つき）
type ReviewView struct {
	Review
	ProductName  string `json:"product_name"`
	CustomerName string `json:"customer_name"`
}

// お気に入り（いいね）
type ProductLove struct {
	ProductID  int64     `gorm:"primaryKey" json:"product_id"`
	CustomerID int64     `gorm:"primaryKey;index" json:"customer_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
