package usecase

import (
	"context"
	"errors"
	"fmt"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ITransactionLedger owns the PaymentTransaction lifecycle and is the only
// writer of transaction status.
type ITransactionLedger interface {
	Open(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
	Get(ctx context.Context, conversationID string) (entities.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error)
	Advance(ctx context.Context, conversationID string, to entities.TransactionStatus, upd entities.TransactionUpdate) (entities.PaymentTransaction, error)
	Annotate(ctx context.Context, conversationID, code, message string) error
}

type TransactionLedger struct {
	repo       interfaces.ITransactionRepository
	writeRetry RetryPolicy
	now        func() time.Time
}

var _ ITransactionLedger = (*TransactionLedger)(nil)

func NewTransactionLedger(repo interfaces.ITransactionRepository) *TransactionLedger {
	return &TransactionLedger{
		repo: repo,
		writeRetry: RetryPolicy{
			MaxAttempts:    3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     time.Second,
			Retryable: func(err error) bool {
				return !errors.Is(err, interfaces.ErrStaleTransition) &&
					!errors.Is(err, interfaces.ErrDuplicateKey) &&
					!errors.Is(err, context.Canceled) &&
					!errors.Is(err, context.DeadlineExceeded)
			},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Open stores a new PENDING transaction. The conversation id must be unused.
func (l *TransactionLedger) Open(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	now := l.now()
	t.Status = entities.TransactionStatusPending
	t.CreatedAt = now
	t.UpdatedAt = now
	t.CompletedAt = nil

	created, err := l.repo.Create(ctx, t)
	if errors.Is(err, interfaces.ErrDuplicateKey) {
		return entities.PaymentTransaction{}, fmt.Errorf("%w: %s", ErrDuplicateConversation, t.ConversationID)
	}
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	logger.Info(ctx, "[payment][ledger] transaction opened",
		zap.String("conversation_id", created.ConversationID),
		zap.String("transaction_id", created.ID),
		zap.String("amount", created.Amount.StringFixed(2)),
		zap.String("currency", created.Currency),
	)
	return created, nil
}

func (l *TransactionLedger) Get(ctx context.Context, conversationID string) (entities.PaymentTransaction, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	t, err := l.repo.GetByConversationID(ctx, conversationID)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if t.ID == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	return t, nil
}

func (l *TransactionLedger) GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	t, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if t.ID == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	return t, nil
}

// Advance moves the transaction to `to` if its stored status is a legal
// source state. When another writer already moved it, the current record is
// returned together with ErrTransitionConflict.
func (l *TransactionLedger) Advance(ctx context.Context, conversationID string, to entities.TransactionStatus, upd entities.TransactionUpdate) (entities.PaymentTransaction, error) {
	from := entities.SourcesOf(to)
	if len(from) == 0 {
		return entities.PaymentTransaction{}, fmt.Errorf("no transition leads to %s", to)
	}

	var updated entities.PaymentTransaction
	err := l.writeRetry.Do(ctx, func(ctx context.Context) error {
		var werr error
		updated, werr = l.repo.Transition(ctx, conversationID, from, to, upd, l.now())
		return werr
	})
	if errors.Is(err, interfaces.ErrStaleTransition) {
		current, gerr := l.Get(ctx, conversationID)
		if gerr != nil {
			return entities.PaymentTransaction{}, gerr
		}
		logger.Info(ctx, "[payment][ledger] transition skipped",
			zap.String("conversation_id", conversationID),
			zap.String("current_status", string(current.Status)),
			zap.String("requested_status", string(to)),
		)
		return current, fmt.Errorf("%w: %s -> %s", ErrTransitionConflict, current.Status, to)
	}
	if err != nil {
		logger.Error(ctx, "[payment][ledger] transition write failed", err,
			zap.String("conversation_id", conversationID),
			zap.String("requested_status", string(to)),
		)
		return entities.PaymentTransaction{}, err
	}

	logger.Info(ctx, "[payment][ledger] transition applied",
		zap.String("conversation_id", conversationID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Annotate records a diagnostic error on a non-terminal transaction without
// changing its status.
func (l *TransactionLedger) Annotate(ctx context.Context, conversationID, code, message string) error {
	err := l.writeRetry.Do(ctx, func(ctx context.Context) error {
		return l.repo.RecordError(ctx, conversationID, code, message, l.now())
	})
	if errors.Is(err, interfaces.ErrStaleTransition) {
		return nil
	}
	return err
}
