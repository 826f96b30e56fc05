package request

import (
	"encoding/json"
	"strings"

	"settlement_service/internal/domain/entities"
)

// CallbackRequest accepts both callback shapes: the iyzico 3DS return (form
// post from the buyer's browser, or JSON) and the Mercado Pago webhook
// ({"type":"payment","data":{"id":...}}).
type CallbackRequest struct {
	Status           string `json:"status" form:"status"`
	PaymentID        string `json:"paymentId" form:"paymentId"`
	ConversationID   string `json:"conversationId" form:"conversationId"`
	ConversationData string `json:"conversationData" form:"conversationData"`
	MDStatus         string `json:"mdStatus" form:"mdStatus"`
	Signature        string `json:"signature" form:"signature"`
	Type             string `json:"type" form:"type"`
	Data             struct {
		ID json.RawMessage `json:"id"`
	} `json:"data" form:"-"`
}

// CallbackMeta is what arrives outside the body.
type CallbackMeta struct {
	// QueryConversationID is the conversation_id query parameter appended to
	// the notification URL.
	QueryConversationID string
	QueryPaymentID      string
	SignatureHeader     string
	RequestID           string
	Browser             bool
}

func (r CallbackRequest) ToPayload(meta CallbackMeta) entities.CallbackPayload {
	p := entities.CallbackPayload{
		Status:           strings.TrimSpace(r.Status),
		PaymentID:        strings.TrimSpace(r.PaymentID),
		ConversationID:   strings.TrimSpace(r.ConversationID),
		ConversationData: r.ConversationData,
		MDStatus:         strings.TrimSpace(r.MDStatus),
		Signature:        strings.TrimSpace(r.Signature),
		RequestID:        meta.RequestID,
		Browser:          meta.Browser,
	}
	if p.ConversationID == "" {
		p.ConversationID = strings.TrimSpace(meta.QueryConversationID)
	}
	if p.PaymentID == "" {
		p.PaymentID = rawID(r.Data.ID)
	}
	if p.PaymentID == "" {
		p.PaymentID = strings.TrimSpace(meta.QueryPaymentID)
	}
	if meta.SignatureHeader != "" {
		ts, v1 := parseSignatureHeader(meta.SignatureHeader)
		p.Timestamp = ts
		if v1 != "" {
			p.Signature = v1
		}
	}
	return p
}

// rawID accepts "123" and 123.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return s
}

func parseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(val)
		case "v1":
			v1 = strings.TrimSpace(val)
		}
	}
	return ts, v1
}
