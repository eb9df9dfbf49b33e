package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockEffectOf(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     StockEffect
	}{
		{OrderStatusPending, OrderStatusProcessing, StockEffectReserve},
		{OrderStatusCancelled, OrderStatusDelivered, StockEffectReserve},
		{OrderStatusShipped, OrderStatusCancelled, StockEffectRelease},
		{OrderStatusProcessing, OrderStatusPending, StockEffectRelease},
		{OrderStatusProcessing, OrderStatusShipped, StockEffectNone},
		{OrderStatusPending, OrderStatusCancelled, StockEffectNone},
		{OrderStatusShipped, OrderStatusShipped, StockEffectNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, StockEffectOf(tt.from, tt.to))
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderAdjustReason(t *testing.T) {
	assert.Equal(t, "order #12 processing", OrderAdjustReason(12, "processing"))
}

func TestAuditJSON(t *testing.T) {
	assert.JSONEq(t, `{"stock":3}`, string(AuditJSON(map[string]int64{"stock": 3})))
	assert.Nil(t, AuditJSON(nil))
	assert.Nil(t, AuditJSON(make(chan int)))
}
