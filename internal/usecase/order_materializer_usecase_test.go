package usecase

import (
	"context"
	"errors"
	"testing"

	"settlement_service/internal/domain/entities"
	mock_interfaces "settlement_service/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func completedTransaction(conversationID string) entities.PaymentTransaction {
	cmd := validCommand(conversationID)
	return entities.PaymentTransaction{
		ID:             "txn-" + conversationID,
		ConversationID: conversationID,
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Currency:       cmd.Currency,
		Status:         entities.TransactionStatusCompleted,
		Snapshot: entities.CheckoutSnapshot{
			Version:  entities.CheckoutSnapshotVersion,
			Items:    cmd.Items,
			Customer: cmd.Customer,
		},
	}
}

func TestOrderMaterializer_Materialize(t *testing.T) {
	t.Run("creates once", func(t *testing.T) {
		repo := newMemOrderRepo()
		m := NewOrderMaterializer(repo)
		txn := completedTransaction("conv-1")

		first, created, err := m.Materialize(context.Background(), txn)
		if err != nil || !created {
			t.Fatalf("expected creation, got created=%v err=%v", created, err)
		}
		if first.TransactionID != txn.ID || first.Status != entities.OrderStatusProcessing {
			t.Fatalf("unexpected order %+v", first)
		}
		if first.Items[0].Line != 1 || !first.Items[0].LineTotal.Equal(decimal.RequireFromString("60")) {
			t.Fatalf("unexpected first item %+v", first.Items[0])
		}

		second, created, err := m.Materialize(context.Background(), txn)
		if err != nil || created {
			t.Fatalf("expected existing order, got created=%v err=%v", created, err)
		}
		if second.ID != first.ID || repo.count() != 1 {
			t.Fatalf("duplicate order created")
		}
	})

	t.Run("refuses unsettled transactions", func(t *testing.T) {
		m := NewOrderMaterializer(newMemOrderRepo())
		txn := completedTransaction("conv-2")
		txn.Status = entities.TransactionStatusAwaiting3DS

		_, _, err := m.Materialize(context.Background(), txn)
		if !errors.Is(err, ErrTransactionNotSettled) {
			t.Fatalf("expected ErrTransactionNotSettled, got %v", err)
		}
	})

	t.Run("rejects unknown snapshot version", func(t *testing.T) {
		m := NewOrderMaterializer(newMemOrderRepo())
		txn := completedTransaction("conv-3")
		txn.Snapshot.Version = 7

		_, _, err := m.Materialize(context.Background(), txn)
		if !errors.Is(err, entities.ErrUnsupportedSnapshotVersion) {
			t.Fatalf("expected ErrUnsupportedSnapshotVersion, got %v", err)
		}
	})

	t.Run("lost race returns stored order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		m := NewOrderMaterializer(repo)
		txn := completedTransaction("conv-4")
		orderID := entities.OrderIDForConversation("conv-4")
		stored := entities.Order{ID: orderID, ConversationID: "conv-4"}

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), orderID).Return(entities.Order{}, nil),
			repo.EXPECT().CreateOnce(gomock.Any(), gomock.Any()).Return(entities.Order{}, errDuplicateForTest()),
			repo.EXPECT().GetByID(gomock.Any(), orderID).Return(stored, nil),
		)

		got, created, err := m.Materialize(context.Background(), txn)
		if err != nil || created || got.ID != orderID {
			t.Fatalf("unexpected got=%+v created=%v err=%v", got, created, err)
		}
	})
}

func TestOrderMaterializer_StoreNotifications(t *testing.T) {
	m := NewOrderMaterializer(newMemOrderRepo())
	txn := completedTransaction("conv-n")
	txn.Snapshot.Items = append(txn.Snapshot.Items, entities.CartLine{
		ProductID: "p-3", StoreID: "store-a", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50"),
	})
	order, _, err := m.Materialize(context.Background(), txn)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	events := m.StoreNotifications(order)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].StoreID != "store-a" || events[1].StoreID != "store-b" {
		t.Fatalf("events not ordered by store: %s, %s", events[0].StoreID, events[1].StoreID)
	}
	if !events[0].StoreTotal.Equal(decimal.RequireFromString("65.50")) || len(events[0].Items) != 2 {
		t.Fatalf("unexpected store-a event %+v", events[0])
	}
	if events[1].Type != entities.NotificationOrderCreated || events[1].OrderID != order.ID {
		t.Fatalf("unexpected store-b event %+v", events[1])
	}
}

func TestOrderMaterializer_GetByConversationID(t *testing.T) {
	m := NewOrderMaterializer(newMemOrderRepo())
	if _, err := m.GetByConversationID(context.Background(), "conv-none"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
