package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of a PaymentTransaction.
//
// State machine:
//   - PENDING -> AWAITING_3DS | COMPLETED | FAILED
//   - AWAITING_3DS -> COMPLETED | FAILED_VERIFICATION
//
// COMPLETED, FAILED and FAILED_VERIFICATION are terminal.
type TransactionStatus string

const (
	TransactionStatusPending            TransactionStatus = "PENDING"
	TransactionStatusAwaiting3DS        TransactionStatus = "AWAITING_3DS"
	TransactionStatusCompleted          TransactionStatus = "COMPLETED"
	TransactionStatusFailed             TransactionStatus = "FAILED"
	TransactionStatusFailedVerification TransactionStatus = "FAILED_VERIFICATION"
)

var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending:     {TransactionStatusAwaiting3DS, TransactionStatusCompleted, TransactionStatusFailed},
	TransactionStatusAwaiting3DS: {TransactionStatusCompleted, TransactionStatusFailedVerification},
}

func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusFailedVerification:
		return true
	}
	return false
}

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transactionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesOf lists the states from which next may be reached.
func SourcesOf(next TransactionStatus) []TransactionStatus {
	var out []TransactionStatus
	for _, from := range []TransactionStatus{TransactionStatusPending, TransactionStatusAwaiting3DS} {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

// PaymentTransaction is the financial audit record of one charge attempt.
//
// Storage model (DynamoDB):
//   - PK: payment_conversation_id (unique correlation key used by callbacks)
//   - GSI (id-index): id
//
// Records are never deleted. Snapshot keeps the cart/customer/address data
// needed to materialize the order without reading mutable cart state.
type PaymentTransaction struct {
	ID                string            `json:"id"`
	ConversationID    string            `json:"payment_conversation_id"`
	UserID            string            `json:"user_id"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	Status            TransactionStatus `json:"status"`
	PaymentMethod     string            `json:"payment_method"`
	Provider          string            `json:"provider"`
	ProviderReference string            `json:"provider_reference,omitempty"`
	Installments      int               `json:"installments"`
	Is3DSecure        bool              `json:"is_3d_secure"`
	CardLastFour      string            `json:"card_last_four,omitempty"`
	SavedCardID       string            `json:"saved_card_id,omitempty"`
	ErrorCode         string            `json:"error_code,omitempty"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	ProviderResponse  json.RawMessage   `json:"provider_response,omitempty"`
	Snapshot          CheckoutSnapshot  `json:"snapshot"`
	ReturnURL         string            `json:"return_url,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
}

// TransactionUpdate carries the fields written together with a status transition.
// Empty fields leave the stored value untouched.
type TransactionUpdate struct {
	ProviderReference string
	CardLastFour      string
	ErrorCode         string
	ErrorMessage      string
	ProviderResponse  json.RawMessage
}
