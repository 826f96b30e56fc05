package response

import (
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase"
)

type InitiatePaymentResponse struct {
	Success        bool   `json:"success"`
	TransactionID  string `json:"transaction_id,omitempty"`
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
	OrderID        string `json:"order_id,omitempty"`
	RedirectURL    string `json:"redirect_url,omitempty"`
	HTMLContent    string `json:"html_content,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

func FromInitiationResult(r usecase.InitiationResult) InitiatePaymentResponse {
	return InitiatePaymentResponse{
		Success:        r.Success,
		TransactionID:  r.TransactionID,
		ConversationID: r.ConversationID,
		Status:         string(r.Status),
		OrderID:        r.OrderID,
		RedirectURL:    r.RedirectURL,
		HTMLContent:    r.HTMLContent,
		ErrorCode:      r.ErrorCode,
		ErrorMessage:   r.ErrorMessage,
	}
}

type CompletionResponse struct {
	TransactionID  string `json:"transaction_id"`
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
	OrderID        string `json:"order_id,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	Replayed       bool   `json:"replayed"`
}

func FromCompletionResult(r usecase.CompletionResult) CompletionResponse {
	return CompletionResponse{
		TransactionID:  r.TransactionID,
		ConversationID: r.ConversationID,
		Status:         string(r.Status),
		OrderID:        r.OrderID,
		ErrorCode:      r.ErrorCode,
		ErrorMessage:   r.ErrorMessage,
		Replayed:       r.Replayed,
	}
}

// CallbackAck is the webhook acknowledgement. Business outcomes are not
// reported to the provider.
type CallbackAck struct {
	Status string `json:"status"`
}

// TransactionResponse is the user-facing transaction view. Provider payloads
// and the checkout snapshot stay internal.
type TransactionResponse struct {
	ID                string     `json:"id"`
	ConversationID    string     `json:"conversation_id"`
	Status            string     `json:"status"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	PaymentMethod     string     `json:"payment_method"`
	Provider          string     `json:"provider"`
	ProviderReference string     `json:"provider_reference,omitempty"`
	Installments      int        `json:"installments"`
	Is3DSecure        bool       `json:"is_3d_secure"`
	CardLastFour      string     `json:"card_last_four,omitempty"`
	ErrorCode         string     `json:"error_code,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func FromTransaction(t entities.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		ConversationID:    t.ConversationID,
		Status:            string(t.Status),
		Amount:            t.Amount.StringFixed(2),
		Currency:          t.Currency,
		PaymentMethod:     t.PaymentMethod,
		Provider:          t.Provider,
		ProviderReference: t.ProviderReference,
		Installments:      t.Installments,
		Is3DSecure:        t.Is3DSecure,
		CardLastFour:      t.CardLastFour,
		ErrorCode:         t.ErrorCode,
		ErrorMessage:      t.ErrorMessage,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		CompletedAt:       t.CompletedAt,
	}
}

type OrderItemResponse struct {
	Line      int    `json:"line"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	StoreID   string `json:"store_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	TransactionID  string              `json:"transaction_id"`
	Total          string              `json:"total"`
	Currency       string              `json:"currency"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	out := OrderResponse{
		ID:             o.ID,
		ConversationID: o.ConversationID,
		TransactionID:  o.TransactionID,
		Total:          o.Total.StringFixed(2),
		Currency:       o.Currency,
		Status:         string(o.Status),
		Items:          make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemResponse{
			Line:      it.Line,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			StoreID:   it.StoreID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return out
}
