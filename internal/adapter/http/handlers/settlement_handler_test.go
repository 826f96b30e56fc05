package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"settlement_service/internal/adapter/http/handlers/mocks"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const initiateBody = `{
	"conversation_id": "conv-1",
	"amount": "100.00",
	"currency": "try",
	"use_3d_secure": true,
	"return_url": "https://shop.example/done",
	"card": {"holder_name": "Ada", "number": "5528790000000008", "expire_month": "12", "expire_year": "2030", "cvc": "123"},
	"items": [
		{"product_id": "p-1", "store_id": "store-a", "name": "Mug", "quantity": 2, "unit_price": "30.00"},
		{"product_id": "p-2", "store_id": "store-b", "name": "Cap", "quantity": 1, "unit_price": 40}
	],
	"customer": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"}
}`

func newSettlementRouter(t *testing.T) (*gin.Engine, *mocks.MockISettlementUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockISettlementUseCase(ctrl)
	h := NewSettlementHandler(uc)

	r := gin.New()
	r.POST("/v1/payments", h.InitiatePayment)
	r.POST("/v1/payments/callback", h.PaymentCallback)
	r.GET("/v1/payments/:conversation_id", h.GetPayment)
	r.GET("/v1/payments/:conversation_id/order", h.GetPaymentOrder)
	r.POST("/v1/payments/:conversation_id/reconcile", h.ReconcilePayment)
	return r, uc
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not json: %s", w.Body.String())
	}
	return body
}

func TestSettlementHandler_InitiatePayment(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		r, _ := newSettlementRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(initiateBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		r, _ := newSettlementRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("maps command and returns challenge", func(t *testing.T) {
		r, uc := newSettlementRouter(t)

		uc.EXPECT().Initiate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, cmd usecase.InitiateCommand) (usecase.InitiationResult, error) {
			if cmd.UserID != "u-1" || cmd.Customer.ID != "u-1" {
				t.Fatalf("unexpected user: %+v", cmd)
			}
			if cmd.Currency != "TRY" || !cmd.Amount.Equal(decimal.RequireFromString("100")) {
				t.Fatalf("unexpected amount: %s %s", cmd.Amount, cmd.Currency)
			}
			if cmd.Installments != 1 {
				t.Fatalf("expected default installment 1, got %d", cmd.Installments)
			}
			if len(cmd.Items) != 2 || !cmd.Items[1].UnitPrice.Equal(decimal.NewFromInt(40)) {
				t.Fatalf("unexpected items: %+v", cmd.Items)
			}
			if cmd.Card == nil || cmd.Card.LastFour() != "0008" {
				t.Fatalf("card not mapped: %+v", cmd.Card)
			}
			return usecase.InitiationResult{
				Success:        true,
				TransactionID:  "txn-1",
				ConversationID: "conv-1",
				Status:         entities.TransactionStatusAwaiting3DS,
				HTMLContent:    "<form/>",
			}, nil
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(initiateBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["status"] != "AWAITING_3DS" || body["html_content"] != "<form/>" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("declined charge maps to 402 with provider code", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(usecase.InitiationResult{
			ConversationID: "conv-1",
			Status:         entities.TransactionStatusFailed,
			ErrorCode:      "10051",
		}, entities.NewGatewayError(entities.GatewayErrorRejected, "10051", "insufficient funds", nil))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(initiateBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["code"] != "10051" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := []struct {
			err  error
			want int
		}{
			{fmt.Errorf("%w: amount must be positive", usecase.ErrInvalidInput), http.StatusBadRequest},
			{usecase.ErrDuplicateConversation, http.StatusConflict},
			{usecase.ErrCardNotFound, http.StatusNotFound},
			{entities.NewGatewayError(entities.GatewayErrorNetwork, "", "timeout", nil), http.StatusBadGateway},
			{entities.NewGatewayError(entities.GatewayErrorConfiguration, "", "no key", nil), http.StatusServiceUnavailable},
			{fmt.Errorf("dynamodb: %w", errors.New("throttled")), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			err, want := tc.err, tc.want
			r, uc := newSettlementRouter(t)
			uc.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(usecase.InitiationResult{}, err)

			req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(initiateBody))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(HeaderUserID, "u-1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != want {
				t.Fatalf("%v: expected %d, got %d", err, want, w.Code)
			}
			if want == http.StatusInternalServerError && strings.Contains(w.Body.String(), "throttled") {
				t.Fatalf("internal detail leaked: %s", w.Body.String())
			}
		}
	})
}

func TestSettlementHandler_PaymentCallback(t *testing.T) {
	t.Run("browser form post redirects to return url", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().CompleteCallback(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, p entities.CallbackPayload) (usecase.CompletionResult, error) {
			if !p.Browser || p.ConversationID != "conv-1" || p.MDStatus != "1" || p.Signature != "abc" {
				t.Fatalf("unexpected payload: %+v", p)
			}
			return usecase.CompletionResult{
				ConversationID: "conv-1",
				Status:         entities.TransactionStatusCompleted,
				ReturnURL:      "https://shop.example/done?ref=x",
			}, nil
		})

		form := url.Values{
			"status": {"success"}, "paymentId": {"pay-1"}, "conversationId": {"conv-1"},
			"mdStatus": {"1"}, "signature": {"abc"},
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		loc, err := url.Parse(w.Header().Get("Location"))
		if err != nil {
			t.Fatalf("bad location: %v", err)
		}
		q := loc.Query()
		if q.Get("conversationId") != "conv-1" || q.Get("status") != "COMPLETED" || q.Get("ref") != "x" {
			t.Fatalf("unexpected location: %s", loc)
		}
	})

	t.Run("webhook acknowledged even when payment failed", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().CompleteCallback(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, p entities.CallbackPayload) (usecase.CompletionResult, error) {
			if p.Browser {
				t.Fatalf("json webhook treated as browser post")
			}
			if p.ConversationID != "conv-2" || p.PaymentID != "123" || p.Timestamp != "1704908010" || p.Signature != "deadbeef" || p.RequestID != "req-9" {
				t.Fatalf("unexpected payload: %+v", p)
			}
			return usecase.CompletionResult{
				ConversationID: "conv-2",
				Status:         entities.TransactionStatusFailed,
				ReturnURL:      "https://shop.example/done",
			}, nil
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback?conversation_id=conv-2", bytes.NewBufferString(`{"type":"payment","data":{"id":123}}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-signature", "ts=1704908010,v1=deadbeef")
		req.Header.Set("x-request-id", "req-9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["status"] != "received" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().CompleteCallback(gomock.Any(), gomock.Any()).Return(usecase.CompletionResult{}, fmt.Errorf("%w: mismatch", usecase.ErrSignature))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewBufferString(`{"conversationId":"conv-1","status":"success"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "mismatch") {
			t.Fatalf("signature detail leaked: %s", w.Body.String())
		}
	})

	t.Run("unknown conversation is acknowledged", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().CompleteCallback(gomock.Any(), gomock.Any()).Return(usecase.CompletionResult{}, usecase.ErrTransactionNotFound)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewBufferString(`{"conversationId":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["status"] != "received" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("provider unreachable is retried", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().CompleteCallback(gomock.Any(), gomock.Any()).
			Return(usecase.CompletionResult{}, entities.NewGatewayError(entities.GatewayErrorNetwork, "", "timeout", nil))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewBufferString(`{"conversationId":"conv-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		r, _ := newSettlementRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewBufferString(`{"conversationId":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestSettlementHandler_Reads(t *testing.T) {
	t.Run("get payment", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().GetTransaction(gomock.Any(), "conv-1", "u-1").Return(entities.PaymentTransaction{
			ID:               "txn-1",
			ConversationID:   "conv-1",
			Status:           entities.TransactionStatusCompleted,
			Amount:           decimal.RequireFromString("100"),
			Currency:         "TRY",
			ProviderResponse: json.RawMessage(`{"secret":"x"}`),
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/conv-1", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["amount"] != "100.00" || body["status"] != "COMPLETED" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if _, ok := body["provider_response"]; ok {
			t.Fatalf("provider payload exposed: %s", w.Body.String())
		}
	})

	t.Run("get payment of another user", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().GetTransaction(gomock.Any(), "conv-1", "u-2").Return(entities.PaymentTransaction{}, usecase.ErrTransactionNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/conv-1", nil)
		req.Header.Set(HeaderUserID, "u-2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("get order", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().GetOrder(gomock.Any(), "conv-1", "u-1").Return(entities.Order{
			ID:    "ord-1",
			Total: decimal.RequireFromString("100"),
			Items: []entities.OrderItem{{Line: 1, ProductID: "p-1", StoreID: "store-a", Quantity: 2, UnitPrice: decimal.NewFromInt(30), LineTotal: decimal.NewFromInt(60)}},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/conv-1/order", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		items, _ := body["items"].([]any)
		if body["id"] != "ord-1" || len(items) != 1 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("order not found", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().GetOrder(gomock.Any(), "conv-1", "u-1").Return(entities.Order{}, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/conv-1/order", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("reconcile", func(t *testing.T) {
		r, uc := newSettlementRouter(t)
		uc.EXPECT().Reconcile(gomock.Any(), "conv-1").Return(usecase.CompletionResult{
			ConversationID: "conv-1",
			Status:         entities.TransactionStatusCompleted,
			OrderID:        "ord-1",
			Replayed:       true,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/conv-1/reconcile", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["order_id"] != "ord-1" || body["replayed"] != true {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
