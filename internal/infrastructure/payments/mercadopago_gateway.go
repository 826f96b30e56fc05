package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing mercado pago access token")

// mercadoPagoPayments is the subset of payment.Client the gateway uses.
type mercadoPagoPayments interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
	Search(ctx context.Context, request payment.SearchRequest) (*payment.SearchResponse, error)
}

type MercadoPagoGateway struct {
	client mercadoPagoPayments
}

var (
	_ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)
	_ interfaces.IPaymentLocator = (*MercadoPagoGateway)(nil)
)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		logger.Log.Error("[payment][gateway] missing mercado pago access token")
		return nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, "MISSING_CREDENTIALS", "", ErrMissingMercadoPagoAccessToken)
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Log.Error("[payment][gateway] failed creating sdk config", zap.Error(err))
		return nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, "SDK_CONFIG", "", err)
	}
	logger.Log.Info("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

type mpPayer struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type mpItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	CategoryID string  `json:"category_id,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type mpPaymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"external_reference"`
	Installments      int     `json:"installments"`
	Token             string  `json:"token"`
	PaymentMethodID   string  `json:"payment_method_id,omitempty"`
	NotificationURL   string  `json:"notification_url,omitempty"`
	ThreeDSecureMode  string  `json:"three_d_secure_mode,omitempty"`
	Payer             mpPayer `json:"payer"`
	AdditionalInfo    struct {
		Items []mpItem `json:"items"`
	} `json:"additional_info"`
}

type mpPaymentResponse struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
	PaymentMethodID   string `json:"payment_method_id"`
	Card              struct {
		LastFourDigits string `json:"last_four_digits"`
	} `json:"card"`
	ThreeDSInfo struct {
		ExternalResourceURL string `json:"external_resource_url"`
		Creq                string `json:"creq"`
	} `json:"three_ds_info"`
}

type mpSearchResponse struct {
	Results []json.RawMessage `json:"results"`
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req entities.ChargeRequest) (entities.ChargeResult, error) {
	payload, err := buildMercadoPagoRequest(req)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal mercado pago request: %w", err)
	}
	var sdkReq payment.Request
	if err := json.Unmarshal(b, &sdkReq); err != nil {
		logger.Error(ctx, "[payment][gateway] payload unmarshal failed", err)
		return nil, fmt.Errorf("build mercado pago request: %w", err)
	}
	logger.Info(ctx, "[payment][gateway] create start",
		zap.String("conversation_id", req.ConversationID),
		zap.Bool("three_ds", req.Use3DSecure),
	)

	resp, err := g.client.Create(ctx, sdkReq)
	if err != nil {
		logger.Error(ctx, "[payment][gateway] sdk create failed", err, zap.String("conversation_id", req.ConversationID))
		return nil, mercadoPagoError(err)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal mercado pago response: %w", err)
	}
	var parsed mpPaymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "", err)
	}
	logger.Info(ctx, "[payment][gateway] create done",
		zap.String("conversation_id", req.ConversationID),
		zap.Int64("provider_payment_id", parsed.ID),
		zap.String("provider_status", parsed.Status),
		zap.String("status_detail", parsed.StatusDetail),
	)

	if parsed.Status == "pending" && parsed.ThreeDSInfo.ExternalResourceURL != "" {
		return entities.ChallengeRequired{
			ProviderReference: strconv.FormatInt(parsed.ID, 10),
			RedirectURL:       parsed.ThreeDSInfo.ExternalResourceURL,
			HTMLContent:       challengeForm(parsed.ThreeDSInfo.ExternalResourceURL, parsed.ThreeDSInfo.Creq),
			Raw:               raw,
		}, nil
	}
	res := mercadoPagoResult(parsed, raw)
	if pending, ok := res.(entities.ChargePending); ok {
		// Under review without a challenge: the buyer is done, the provider
		// settles later and retrieve picks it up.
		return nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "PAYMENT_IN_PROCESS", pending.ProviderStatus, nil)
	}
	return res, nil
}

// Retrieve finds the payment by external_reference. The newest match wins.
func (g *MercadoPagoGateway) Retrieve(ctx context.Context, conversationID string) (entities.ChargeResult, error) {
	resp, err := g.client.Search(ctx, payment.SearchRequest{
		Filters: map[string]string{
			"external_reference": conversationID,
			"sort":               "date_created",
			"criteria":           "desc",
		},
	})
	if err != nil {
		logger.Error(ctx, "[payment][gateway] sdk search failed", err, zap.String("conversation_id", conversationID))
		return nil, mercadoPagoError(err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal mercado pago search: %w", err)
	}
	var found mpSearchResponse
	if err := json.Unmarshal(b, &found); err != nil {
		return nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "", err)
	}
	if len(found.Results) == 0 {
		return entities.ChargePending{ProviderStatus: "not_found", Raw: b}, nil
	}

	raw := found.Results[0]
	var parsed mpPaymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "", err)
	}
	return mercadoPagoResult(parsed, raw), nil
}

// ConversationIDFor reads the payment by its Mercado Pago id and returns the
// external_reference it was created with. Webhooks sign only the payment id,
// so this is what ties a notification to a transaction.
func (g *MercadoPagoGateway) ConversationIDFor(ctx context.Context, providerPaymentID string) (string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(providerPaymentID))
	if err != nil || id <= 0 {
		return "", entities.NewGatewayError(entities.GatewayErrorRejected, "INVALID_PAYMENT_ID", providerPaymentID, err)
	}
	resp, err := g.client.Get(ctx, id)
	if err != nil {
		logger.Error(ctx, "[payment][gateway] sdk get failed", err, zap.Int("provider_payment_id", id))
		return "", mercadoPagoError(err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal mercado pago payment: %w", err)
	}
	var parsed mpPaymentResponse
	if err := json.Unmarshal(b, &parsed); err != nil {
		return "", entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "", err)
	}
	if parsed.ExternalReference == "" {
		return "", entities.NewGatewayError(entities.GatewayErrorRejected, "NO_EXTERNAL_REFERENCE", providerPaymentID, nil)
	}
	return parsed.ExternalReference, nil
}

func mercadoPagoResult(p mpPaymentResponse, raw json.RawMessage) entities.ChargeResult {
	ref := strconv.FormatInt(p.ID, 10)
	switch p.Status {
	case "approved":
		return entities.ChargeSucceeded{
			ProviderReference: ref,
			CardLastFour:      p.Card.LastFourDigits,
			CardBrand:         entities.ParseCardBrand(p.PaymentMethodID),
			Raw:               raw,
		}
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.ChargeFailed{ProviderReference: ref, Code: strings.ToUpper(p.Status), Message: p.StatusDetail, Raw: raw}
	default:
		return entities.ChargePending{ProviderReference: ref, ProviderStatus: p.Status, Raw: raw}
	}
}

func mercadoPagoError(err error) error {
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		code := strconv.Itoa(respErr.StatusCode)
		switch {
		case respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden:
			return entities.NewGatewayError(entities.GatewayErrorConfiguration, code, respErr.Message, err)
		case respErr.StatusCode >= http.StatusInternalServerError || respErr.StatusCode == http.StatusTooManyRequests:
			return entities.NewGatewayError(entities.GatewayErrorNetwork, code, respErr.Message, err)
		default:
			return entities.NewGatewayError(entities.GatewayErrorRejected, code, respErr.Message, err)
		}
	}
	return entities.NewGatewayError(entities.GatewayErrorNetwork, "", "mercado pago request failed", err)
}

func buildMercadoPagoRequest(req entities.ChargeRequest) (mpPaymentRequest, error) {
	out := mpPaymentRequest{
		TransactionAmount: req.Amount.InexactFloat64(),
		Description:       "Order " + req.ConversationID,
		ExternalReference: req.ConversationID,
		Installments:      max(req.Installments, 1),
		Payer: mpPayer{
			Email:     req.Snapshot.Customer.Email,
			FirstName: req.Snapshot.Customer.FirstName,
			LastName:  req.Snapshot.Customer.LastName,
		},
	}

	switch {
	case req.Credentials.SavedCard != nil:
		out.Token = req.Credentials.SavedCard.ProviderToken
		out.Payer.ID = req.Credentials.SavedCard.ProviderUserKey
	case req.Credentials.Card != nil:
		out.Token = req.Credentials.Card.Token
	}
	if out.Token == "" {
		return mpPaymentRequest{}, entities.NewGatewayError(entities.GatewayErrorRejected, "CARD_TOKEN_REQUIRED", "mercado pago charges need a card token", nil)
	}

	if m := strings.ToLower(req.PaymentMethod); m != "" && m != "credit_card" {
		out.PaymentMethodID = m
	}
	if req.CallbackURL != "" {
		out.NotificationURL = req.CallbackURL + "?conversation_id=" + url.QueryEscape(req.ConversationID)
	}
	if req.Use3DSecure {
		out.ThreeDSecureMode = "optional"
	}
	for _, l := range req.Snapshot.Items {
		out.AdditionalInfo.Items = append(out.AdditionalInfo.Items, mpItem{
			ID:         l.ProductID,
			Title:      l.Name,
			CategoryID: l.Category,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice.InexactFloat64(),
		})
	}
	return out, nil
}

// challengeForm auto-posts the creq to the issuer's challenge page.
func challengeForm(action, creq string) string {
	return `<form id="threeds" method="POST" action="` + html.EscapeString(action) + `">` +
		`<input type="hidden" name="creq" value="` + html.EscapeString(creq) + `"/></form>` +
		`<script>document.getElementById("threeds").submit();</script>`
}
