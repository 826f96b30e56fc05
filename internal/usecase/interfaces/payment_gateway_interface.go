package interfaces

import (
	"context"
	"settlement_service/internal/domain/entities"
)

// IPaymentGateway abstracts one payment provider. It is the only component
// that speaks the provider's wire protocol.
//
// Charge must be called at most once per transaction attempt. Retrieve is a
// side-effect-free query of the provider's authoritative status.
type IPaymentGateway interface {
	Name() string
	Charge(ctx context.Context, req entities.ChargeRequest) (entities.ChargeResult, error)
	Retrieve(ctx context.Context, conversationID string) (entities.ChargeResult, error)
}

// IChallengeFinalizer is implemented by providers that need an explicit call
// to complete a payment after a successful 3DS challenge.
type IChallengeFinalizer interface {
	FinalizeChallenge(ctx context.Context, payload entities.CallbackPayload) (entities.ChargeResult, error)
}

// IPaymentLocator is implemented by providers whose callbacks identify a
// payment only by the provider's own id. It returns the conversation id the
// provider recorded for that payment.
type IPaymentLocator interface {
	ConversationIDFor(ctx context.Context, providerPaymentID string) (string, error)
}

// ICallbackVerifier authenticates provider callbacks.
type ICallbackVerifier interface {
	Verify(payload entities.CallbackPayload) error
}
