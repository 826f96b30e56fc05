package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"
)

var (
	ErrMissingWebhookSecret = errors.New("webhook secret not configured")
	ErrMissingSignature     = errors.New("callback carries no signature")
	ErrSignatureMismatch    = errors.New("callback signature mismatch")
)

// HMACVerifier checks a hex HMAC-SHA256 over a provider-specific canonical
// string built from the callback fields.
type HMACVerifier struct {
	secret    []byte
	canonical func(entities.CallbackPayload) string
}

var _ interfaces.ICallbackVerifier = (*HMACVerifier)(nil)

// NewIyzicoCallbackVerifier signs conversationData:conversationId:mdStatus:paymentId:status.
func NewIyzicoCallbackVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), canonical: IyzicoCallbackMessage}
}

// NewMercadoPagoCallbackVerifier checks the x-signature v1 hash over the
// id/request-id/ts manifest.
func NewMercadoPagoCallbackVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), canonical: MercadoPagoManifest}
}

func (v *HMACVerifier) Verify(p entities.CallbackPayload) error {
	if len(v.secret) == 0 {
		return ErrMissingWebhookSecret
	}
	got := strings.ToLower(strings.TrimSpace(p.Signature))
	if got == "" {
		return ErrMissingSignature
	}
	want := Sign(string(v.secret), v.canonical(p))
	if !hmac.Equal([]byte(got), []byte(want)) {
		return ErrSignatureMismatch
	}
	return nil
}

func IyzicoCallbackMessage(p entities.CallbackPayload) string {
	return strings.Join([]string{p.ConversationData, p.ConversationID, p.MDStatus, p.PaymentID, p.Status}, ":")
}

// MercadoPagoManifest skips parts that were not sent, as the provider does.
func MercadoPagoManifest(p entities.CallbackPayload) string {
	var b strings.Builder
	if p.PaymentID != "" {
		b.WriteString("id:" + strings.ToLower(p.PaymentID) + ";")
	}
	if p.RequestID != "" {
		b.WriteString("request-id:" + p.RequestID + ";")
	}
	if p.Timestamp != "" {
		b.WriteString("ts:" + p.Timestamp + ";")
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA256 of message.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
