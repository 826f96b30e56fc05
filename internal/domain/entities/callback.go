package entities

import "strings"

// CallbackPayload is the provider's asynchronous notification, normalized.
// Fields a provider does not send stay empty.
type CallbackPayload struct {
	Status           string
	PaymentID        string
	ConversationID   string
	ConversationData string
	MDStatus         string
	Signature        string
	RequestID        string
	Timestamp        string
	// Browser is true when the callback came from the buyer's browser (3DS
	// return form post) rather than a server-to-server webhook.
	Browser bool
}

// ClaimsSuccess reports what the callback says. It is never trusted on its own.
func (p CallbackPayload) ClaimsSuccess() bool {
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case "success", "approved", "succeeded":
		return true
	}
	return false
}
