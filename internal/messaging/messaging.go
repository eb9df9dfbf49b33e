package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
	TopicOrderDeleted       = "order.deleted"
)

// OrderPlaced はcommit後に送る
type OrderPlaced struct {
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Items      int             `json:"items"`
	PlacedAt   time.Time       `json:"placed_at"`
}

type OrderStatusChanged struct {
	OrderID   int64     `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	AdminID   int64     `json:"admin_id"`
	ChangedAt time.Time `json:"changed_at"`
}

type OrderDeleted struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Released  bool      `json:"released"`
	AdminID   int64     `json:"admin_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// LogPublisher はブローカー未設定時に使う。イベントをログに出すだけ。
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	p.logger.InfoContext(ctx, "event", "topic", topic, "key", key, "event", event)
	return nil
}
