package model

import "github.com/shopspring/decimal"

// 注文明細。商品が削除されてもProductIDがNULLになるだけで残る。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           *int64          `gorm:"index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity))
}
