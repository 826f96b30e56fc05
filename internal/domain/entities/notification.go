package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotificationOrderCreated    NotificationType = "order.created"
	NotificationPayoutCompleted NotificationType = "payout.completed"
)

// NotificationEvent is delivered to sellers, one per affected store.
type NotificationEvent struct {
	Type           NotificationType `json:"type"`
	OrderID        string           `json:"order_id"`
	ConversationID string           `json:"payment_conversation_id"`
	StoreID        string           `json:"store_id"`
	UserID         string           `json:"user_id"`
	StoreTotal     decimal.Decimal  `json:"store_total"`
	Currency       string           `json:"currency"`
	Items          []OrderItem      `json:"items"`
	OccurredAt     time.Time        `json:"occurred_at"`
}
