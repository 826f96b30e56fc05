package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"
	mock_interfaces "settlement_service/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newTestLedger(repo interfaces.ITransactionRepository) *TransactionLedger {
	l := NewTransactionLedger(repo)
	l.writeRetry.InitialBackoff = 0
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestTransactionLedger_Open(t *testing.T) {
	repo := newMemTransactionRepo()
	l := newTestLedger(repo)

	created, err := l.Open(context.Background(), entities.PaymentTransaction{
		ID: "txn-1", ConversationID: "conv-1", Amount: decimal.RequireFromString("10.00"), Currency: "TRY",
		Status: entities.TransactionStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Status != entities.TransactionStatusPending {
		t.Fatalf("expected PENDING regardless of input, got %s", created.Status)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps not set: %+v", created)
	}

	_, err = l.Open(context.Background(), entities.PaymentTransaction{ID: "txn-2", ConversationID: "conv-1"})
	if !errors.Is(err, ErrDuplicateConversation) {
		t.Fatalf("expected ErrDuplicateConversation, got %v", err)
	}
}

func TestTransactionLedger_Get(t *testing.T) {
	l := newTestLedger(newMemTransactionRepo())

	if _, err := l.Get(context.Background(), " "); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, err := l.Get(context.Background(), "conv-missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, err := l.GetByID(context.Background(), "txn-missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionLedger_Advance(t *testing.T) {
	t.Run("legal transition", func(t *testing.T) {
		repo := newMemTransactionRepo()
		l := newTestLedger(repo)
		_, _ = l.Open(context.Background(), entities.PaymentTransaction{ID: "txn-1", ConversationID: "conv-1"})

		got, err := l.Advance(context.Background(), "conv-1", entities.TransactionStatusAwaiting3DS, entities.TransactionUpdate{ProviderReference: "pay-1"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got.Status != entities.TransactionStatusAwaiting3DS || got.ProviderReference != "pay-1" {
			t.Fatalf("unexpected %+v", got)
		}
	})

	t.Run("illegal transition returns current record", func(t *testing.T) {
		repo := newMemTransactionRepo()
		l := newTestLedger(repo)
		_, _ = l.Open(context.Background(), entities.PaymentTransaction{ID: "txn-1", ConversationID: "conv-1"})
		_, _ = l.Advance(context.Background(), "conv-1", entities.TransactionStatusFailed, entities.TransactionUpdate{ErrorCode: "X"})

		got, err := l.Advance(context.Background(), "conv-1", entities.TransactionStatusCompleted, entities.TransactionUpdate{})
		if !errors.Is(err, ErrTransitionConflict) {
			t.Fatalf("expected ErrTransitionConflict, got %v", err)
		}
		if got.Status != entities.TransactionStatusFailed {
			t.Fatalf("expected current FAILED record, got %+v", got)
		}
	})

	t.Run("unreachable target", func(t *testing.T) {
		l := newTestLedger(newMemTransactionRepo())
		if _, err := l.Advance(context.Background(), "conv-1", entities.TransactionStatusPending, entities.TransactionUpdate{}); err == nil {
			t.Fatalf("expected error for transition into PENDING")
		}
	})

	t.Run("transient write errors are retried", func(t *testing.T) {
		repo := newMemTransactionRepo()
		l := newTestLedger(repo)
		_, _ = l.Open(context.Background(), entities.PaymentTransaction{ID: "txn-1", ConversationID: "conv-1"})
		repo.failTransitions = 2

		got, err := l.Advance(context.Background(), "conv-1", entities.TransactionStatusCompleted, entities.TransactionUpdate{})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got.Status != entities.TransactionStatusCompleted || got.CompletedAt == nil {
			t.Fatalf("unexpected %+v", got)
		}
	})

	t.Run("repository error after retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockITransactionRepository(ctrl)
		l := newTestLedger(repo)

		repo.EXPECT().
			Transition(gomock.Any(), "conv-1", gomock.Any(), entities.TransactionStatusCompleted, gomock.Any(), gomock.Any()).
			Return(entities.PaymentTransaction{}, errors.New("dynamo down")).
			Times(3)

		_, err := l.Advance(context.Background(), "conv-1", entities.TransactionStatusCompleted, entities.TransactionUpdate{})
		if err == nil || err.Error() != "dynamo down" {
			t.Fatalf("expected dynamo down, got %v", err)
		}
	})
}

func TestTransactionLedger_Annotate(t *testing.T) {
	repo := newMemTransactionRepo()
	l := newTestLedger(repo)
	_, _ = l.Open(context.Background(), entities.PaymentTransaction{ID: "txn-1", ConversationID: "conv-1"})

	if err := l.Annotate(context.Background(), "conv-1", "GATEWAY_UNREACHABLE", "timeout"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := repo.get("conv-1")
	if got.Status != entities.TransactionStatusPending || got.ErrorCode != "GATEWAY_UNREACHABLE" {
		t.Fatalf("unexpected %+v", got)
	}

	_, _ = l.Advance(context.Background(), "conv-1", entities.TransactionStatusCompleted, entities.TransactionUpdate{})
	if err := l.Annotate(context.Background(), "conv-1", "LATE", "ignored"); err != nil {
		t.Fatalf("annotating a settled transaction should be a no-op, got %v", err)
	}
	if repo.get("conv-1").ErrorCode != "GATEWAY_UNREACHABLE" {
		t.Fatalf("settled transaction must not be annotated")
	}
}
