package usecase

import (
	"context"
	"errors"
	"fmt"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IOrderMaterializer creates the order for a completed transaction exactly once.
type IOrderMaterializer interface {
	Materialize(ctx context.Context, t entities.PaymentTransaction) (order entities.Order, created bool, err error)
	GetByConversationID(ctx context.Context, conversationID string) (entities.Order, error)
	StoreNotifications(o entities.Order) []entities.NotificationEvent
}

type OrderMaterializer struct {
	repo interfaces.IOrderRepository
	now  func() time.Time
}

var _ IOrderMaterializer = (*OrderMaterializer)(nil)

func NewOrderMaterializer(repo interfaces.IOrderRepository) *OrderMaterializer {
	return &OrderMaterializer{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Materialize is safe under concurrent calls for the same conversation id:
// the order id is derived from the conversation id and the store rejects a
// second insert, so exactly one caller sees created=true and the others get
// the stored order back.
func (m *OrderMaterializer) Materialize(ctx context.Context, t entities.PaymentTransaction) (entities.Order, bool, error) {
	if t.Status != entities.TransactionStatusCompleted {
		return entities.Order{}, false, fmt.Errorf("%w: status=%s", ErrTransactionNotSettled, t.Status)
	}

	orderID := entities.OrderIDForConversation(t.ConversationID)
	existing, err := m.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, false, err
	}
	if existing.ID != "" {
		return existing, false, nil
	}

	if err := t.Snapshot.CheckSchema(); err != nil {
		logger.Error(ctx, "[payment][materializer] checkout snapshot rejected", err,
			zap.String("conversation_id", t.ConversationID),
		)
		return entities.Order{}, false, err
	}

	order := buildOrder(orderID, t, m.now())
	created, err := m.repo.CreateOnce(ctx, order)
	if errors.Is(err, interfaces.ErrDuplicateKey) {
		stored, gerr := m.repo.GetByID(ctx, orderID)
		if gerr != nil {
			return entities.Order{}, false, gerr
		}
		logger.Info(ctx, "[payment][materializer] order already materialized",
			zap.String("conversation_id", t.ConversationID),
			zap.String("order_id", stored.ID),
		)
		return stored, false, nil
	}
	if err != nil {
		return entities.Order{}, false, err
	}

	logger.Info(ctx, "[payment][materializer] order created",
		zap.String("conversation_id", t.ConversationID),
		zap.String("order_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return created, true, nil
}

func (m *OrderMaterializer) GetByConversationID(ctx context.Context, conversationID string) (entities.Order, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	o, err := m.repo.GetByID(ctx, entities.OrderIDForConversation(conversationID))
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// StoreNotifications fans an order out into one event per seller store,
// ordered by store id.
func (m *OrderMaterializer) StoreNotifications(o entities.Order) []entities.NotificationEvent {
	byStore := o.ItemsByStore()
	stores := make([]string, 0, len(byStore))
	for storeID := range byStore {
		stores = append(stores, storeID)
	}
	sort.Strings(stores)

	events := make([]entities.NotificationEvent, 0, len(stores))
	for _, storeID := range stores {
		items := byStore[storeID]
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.LineTotal)
		}
		events = append(events, entities.NotificationEvent{
			Type:           entities.NotificationOrderCreated,
			OrderID:        o.ID,
			ConversationID: o.ConversationID,
			StoreID:        storeID,
			UserID:         o.UserID,
			StoreTotal:     total,
			Currency:       o.Currency,
			Items:          items,
			OccurredAt:     o.CreatedAt,
		})
	}
	return events
}

func buildOrder(orderID string, t entities.PaymentTransaction, now time.Time) entities.Order {
	items := make([]entities.OrderItem, 0, len(t.Snapshot.Items))
	for i, l := range t.Snapshot.Items {
		items = append(items, entities.OrderItem{
			OrderID:   orderID,
			Line:      i + 1,
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			StoreID:   l.StoreID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return entities.Order{
		ID:             orderID,
		ConversationID: t.ConversationID,
		TransactionID:  t.ID,
		UserID:         t.UserID,
		Total:          t.Amount,
		Currency:       t.Currency,
		Status:         entities.OrderStatusProcessing,
		Items:          items,
		CreatedAt:      now,
	}
}
