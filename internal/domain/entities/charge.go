package entities

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ChargeRequest is what the orchestrator hands to a gateway adapter.
type ChargeRequest struct {
	ConversationID string
	BasketID       string
	Amount         decimal.Decimal
	Currency       string
	PaymentMethod  string
	BankID         string
	Installments   int
	Use3DSecure    bool
	Credentials    ChargeCredentials
	Snapshot       CheckoutSnapshot
	CallbackURL    string
}

// ChargeResult is the tagged outcome of a gateway charge or retrieve call.
// Callers switch on the concrete type:
//
//	switch r := res.(type) {
//	case ChargeSucceeded:
//	case ChallengeRequired:
//	case ChargeFailed:
//	case ChargePending:
//	}
type ChargeResult interface {
	RawResponse() json.RawMessage
	isChargeResult()
}

// ChargeSucceeded means the provider captured the money.
type ChargeSucceeded struct {
	ProviderReference string
	CardLastFour      string
	// CardBrand is the scheme the provider reported, if any.
	CardBrand CardBrand
	// CardToken and CardUserKey are set only when the provider issued a reusable token.
	CardToken     string
	CardUserKey   string
	BankReference string
	Raw           json.RawMessage
}

// ChallengeRequired means a 3DS challenge is pending. RedirectURL or
// HTMLContent (or both) carry what the buyer's browser must render.
type ChallengeRequired struct {
	ProviderReference string
	RedirectURL       string
	HTMLContent       string
	Raw               json.RawMessage
}

// ChargeFailed is a terminal business decline reported by the provider.
type ChargeFailed struct {
	ProviderReference string
	Code              string
	Message           string
	Raw               json.RawMessage
}

// ChargePending is only returned by retrieve: the provider has the payment
// but has not settled it yet.
type ChargePending struct {
	ProviderReference string
	ProviderStatus    string
	Raw               json.RawMessage
}

func (r ChargeSucceeded) RawResponse() json.RawMessage   { return r.Raw }
func (r ChallengeRequired) RawResponse() json.RawMessage { return r.Raw }
func (r ChargeFailed) RawResponse() json.RawMessage      { return r.Raw }
func (r ChargePending) RawResponse() json.RawMessage     { return r.Raw }

func (ChargeSucceeded) isChargeResult()   {}
func (ChallengeRequired) isChargeResult() {}
func (ChargeFailed) isChargeResult()      {}
func (ChargePending) isChargeResult()     {}
