package interfaces

import (
	"context"
	"errors"
	"settlement_service/internal/domain/entities"
	"time"
)

var (
	// ErrDuplicateKey is returned when a conditional create finds the key taken.
	ErrDuplicateKey = errors.New("item already exists")
	// ErrStaleTransition is returned when the stored status is not one of the
	// expected source states (another writer got there first).
	ErrStaleTransition = errors.New("transaction status changed concurrently")
)

// ITransactionRepository abstracts DynamoDB persistence for PaymentTransaction.
//
// Lookups return a zero-value entity (empty ID) when nothing is stored.
type ITransactionRepository interface {
	Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
	GetByConversationID(ctx context.Context, conversationID string) (entities.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error)
	Transition(ctx context.Context, conversationID string, from []entities.TransactionStatus, to entities.TransactionStatus, upd entities.TransactionUpdate, at time.Time) (entities.PaymentTransaction, error)
	RecordError(ctx context.Context, conversationID string, code, message string, at time.Time) error
}
