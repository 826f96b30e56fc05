package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
)

// orderNamespace scopes the deterministic order ids derived from conversation ids.
var orderNamespace = uuid.MustParse("5b0e7c1e-9f5d-4c3a-8d2b-6a1f0e4c7b92")

// Order is materialized exactly once per successful PaymentTransaction.
//
// Storage model (DynamoDB):
//   - orders PK: id (derived from payment_conversation_id, see OrderIDForConversation)
//   - order_items PK: order_id, SK: line
type Order struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"payment_conversation_id"`
	TransactionID  string          `json:"transaction_id"`
	UserID         string          `json:"user_id"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	Status         OrderStatus     `json:"status"`
	Items          []OrderItem     `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

type OrderItem struct {
	OrderID   string          `json:"order_id"`
	Line      int             `json:"line"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderIDForConversation returns the order id owned by a conversation id.
// The same conversation always maps to the same order row, so the store's
// primary key acts as the uniqueness constraint.
func OrderIDForConversation(conversationID string) string {
	return uuid.NewSHA1(orderNamespace, []byte(conversationID)).String()
}

// ItemsByStore groups order lines by seller store, preserving line order.
func (o Order) ItemsByStore() map[string][]OrderItem {
	out := make(map[string][]OrderItem)
	for _, it := range o.Items {
		out[it.StoreID] = append(out[it.StoreID], it)
	}
	return out
}
