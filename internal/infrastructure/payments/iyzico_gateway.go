package payments

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const (
	IyzicoSandboxURL    = "https://sandbox-api.iyzipay.com"
	IyzicoProductionURL = "https://api.iyzipay.com"

	iyzicoPathAuth       = "/payment/auth"
	iyzicoPath3DSInit    = "/payment/3dsecure/initialize"
	iyzicoPath3DSAuth    = "/payment/3dsecure/auth"
	iyzicoPathDetail     = "/payment/detail"
	iyzicoDefaultLocale  = "tr"
	iyzicoPlaceholderTCK = "11111111111"
)

// iyzico error codes that mean our credentials are wrong rather than the card.
var iyzicoAuthErrorCodes = map[string]bool{"1000": true, "1001": true}

type IyzicoConfig struct {
	APIKey    string
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// IyzicoGateway talks to the iyzico REST API with IYZWSv2 request signing.
type IyzicoGateway struct {
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
	randomKey func() string
}

var (
	_ interfaces.IPaymentGateway      = (*IyzicoGateway)(nil)
	_ interfaces.IChallengeFinalizer = (*IyzicoGateway)(nil)
)

func NewIyzicoGateway(cfg IyzicoConfig) (*IyzicoGateway, error) {
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, "MISSING_CREDENTIALS", "iyzico api key and secret key are required", nil)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = IyzicoSandboxURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &IyzicoGateway{
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		randomKey: newRandomKey,
	}, nil
}

func (g *IyzicoGateway) Name() string { return "iyzico" }

type iyzicoPaymentCard struct {
	CardHolderName string `json:"cardHolderName,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	ExpireMonth    string `json:"expireMonth,omitempty"`
	ExpireYear     string `json:"expireYear,omitempty"`
	CVC            string `json:"cvc,omitempty"`
	RegisterCard   *int   `json:"registerCard,omitempty"`
	CardUserKey    string `json:"cardUserKey,omitempty"`
	CardToken      string `json:"cardToken,omitempty"`
}

type iyzicoBuyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	GsmNumber           string `json:"gsmNumber,omitempty"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	RegistrationAddress string `json:"registrationAddress"`
	IP                  string `json:"ip"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode,omitempty"`
}

type iyzicoAddress struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode,omitempty"`
}

type iyzicoBasketItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

type iyzicoPaymentRequest struct {
	Locale          string             `json:"locale"`
	ConversationID  string             `json:"conversationId"`
	Price           string             `json:"price"`
	PaidPrice       string             `json:"paidPrice"`
	Currency        string             `json:"currency"`
	Installment     int                `json:"installment"`
	BasketID        string             `json:"basketId"`
	PaymentChannel  string             `json:"paymentChannel"`
	PaymentGroup    string             `json:"paymentGroup"`
	PaymentCard     iyzicoPaymentCard  `json:"paymentCard"`
	Buyer           iyzicoBuyer        `json:"buyer"`
	ShippingAddress iyzicoAddress      `json:"shippingAddress"`
	BillingAddress  iyzicoAddress      `json:"billingAddress"`
	BasketItems     []iyzicoBasketItem `json:"basketItems"`
	CallbackURL     string             `json:"callbackUrl,omitempty"`
}

type iyzicoResponse struct {
	Status             string `json:"status"`
	ErrorCode          string `json:"errorCode"`
	ErrorMessage       string `json:"errorMessage"`
	ConversationID     string `json:"conversationId"`
	PaymentID          string `json:"paymentId"`
	PaymentStatus      string `json:"paymentStatus"`
	LastFourDigits     string `json:"lastFourDigits"`
	CardAssociation    string `json:"cardAssociation"`
	CardToken          string `json:"cardToken"`
	CardUserKey        string `json:"cardUserKey"`
	AuthCode           string `json:"authCode"`
	ThreeDSHTMLContent string `json:"threeDSHtmlContent"`
}

func (g *IyzicoGateway) Charge(ctx context.Context, req entities.ChargeRequest) (entities.ChargeResult, error) {
	body, err := buildIyzicoPaymentRequest(req)
	if err != nil {
		return nil, err
	}
	path := iyzicoPathAuth
	if req.Use3DSecure {
		path = iyzicoPath3DSInit
	}
	logger.Info(ctx, "[payment][gateway] iyzico charge start",
		zap.String("conversation_id", req.ConversationID),
		zap.String("path", path),
		zap.Bool("three_ds", req.Use3DSecure),
	)

	resp, raw, err := g.post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return g.failure(ctx, req.ConversationID, resp, raw)
	}

	if req.Use3DSecure {
		html, err := base64.StdEncoding.DecodeString(resp.ThreeDSHTMLContent)
		if err != nil || len(html) == 0 {
			return nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "3ds initialize returned no html content", err)
		}
		logger.Info(ctx, "[payment][gateway] iyzico 3ds challenge issued", zap.String("conversation_id", req.ConversationID))
		return entities.ChallengeRequired{ProviderReference: resp.PaymentID, HTMLContent: string(html), Raw: raw}, nil
	}
	return succeededFromIyzico(resp, raw), nil
}

// FinalizeChallenge completes a 3DS payment after the bank sent the buyer back.
func (g *IyzicoGateway) FinalizeChallenge(ctx context.Context, p entities.CallbackPayload) (entities.ChargeResult, error) {
	body := map[string]string{
		"locale":           iyzicoDefaultLocale,
		"conversationId":   p.ConversationID,
		"paymentId":        p.PaymentID,
		"conversationData": p.ConversationData,
	}
	resp, raw, err := g.post(ctx, iyzicoPath3DSAuth, body)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return g.failure(ctx, p.ConversationID, resp, raw)
	}
	return succeededFromIyzico(resp, raw), nil
}

// Retrieve asks iyzico for the payment's authoritative status.
func (g *IyzicoGateway) Retrieve(ctx context.Context, conversationID string) (entities.ChargeResult, error) {
	body := map[string]string{
		"locale":                iyzicoDefaultLocale,
		"conversationId":        conversationID,
		"paymentConversationId": conversationID,
	}
	resp, raw, err := g.post(ctx, iyzicoPathDetail, body)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return g.failure(ctx, conversationID, resp, raw)
	}

	switch strings.ToUpper(resp.PaymentStatus) {
	case "SUCCESS":
		return succeededFromIyzico(resp, raw), nil
	case "FAILURE":
		return entities.ChargeFailed{ProviderReference: resp.PaymentID, Code: resp.PaymentStatus, Message: resp.ErrorMessage, Raw: raw}, nil
	default:
		return entities.ChargePending{ProviderReference: resp.PaymentID, ProviderStatus: resp.PaymentStatus, Raw: raw}, nil
	}
}

func (g *IyzicoGateway) failure(ctx context.Context, conversationID string, resp iyzicoResponse, raw json.RawMessage) (entities.ChargeResult, error) {
	if iyzicoAuthErrorCodes[resp.ErrorCode] {
		logger.Warn(ctx, "[payment][gateway] iyzico rejected credentials",
			zap.String("conversation_id", conversationID),
			zap.String("error_code", resp.ErrorCode),
		)
		return nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, resp.ErrorCode, resp.ErrorMessage, nil)
	}
	logger.Info(ctx, "[payment][gateway] iyzico declined",
		zap.String("conversation_id", conversationID),
		zap.String("error_code", resp.ErrorCode),
	)
	return entities.ChargeFailed{ProviderReference: resp.PaymentID, Code: resp.ErrorCode, Message: resp.ErrorMessage, Raw: raw}, nil
}

func (g *IyzicoGateway) post(ctx context.Context, path string, payload any) (iyzicoResponse, json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return iyzicoResponse{}, nil, fmt.Errorf("marshal iyzico request: %w", err)
	}

	rnd := g.randomKey()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, "INVALID_BASE_URL", g.baseURL, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-iyzi-rnd", rnd)
	httpReq.Header.Set("Authorization", IyzicoAuthorization(g.apiKey, g.secretKey, rnd, path, body))

	res, err := g.client.Do(httpReq)
	if err != nil {
		logger.Error(ctx, "[payment][gateway] iyzico request failed", err, zap.String("path", path))
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "", "iyzico request failed", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "", "read iyzico response", err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorConfiguration, strconv.Itoa(res.StatusCode), "iyzico refused credentials", nil)
	case res.StatusCode >= http.StatusInternalServerError:
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorNetwork, strconv.Itoa(res.StatusCode), "iyzico unavailable", nil)
	}

	var out iyzicoResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return iyzicoResponse{}, nil, entities.NewGatewayError(entities.GatewayErrorNetwork, "MALFORMED_RESPONSE", "iyzico response is not json", err)
	}
	logger.Debug(ctx, "[payment][gateway] iyzico response",
		zap.String("path", path),
		zap.Int("http_status", res.StatusCode),
		zap.String("status", out.Status),
		zap.String("payment_status", out.PaymentStatus),
	)
	return out, raw, nil
}

// IyzicoAuthorization builds the IYZWSv2 Authorization header value.
func IyzicoAuthorization(apiKey, secretKey, randomKey, path string, body []byte) string {
	mac := Sign(secretKey, randomKey+path+string(body))
	params := "apiKey:" + apiKey + "&randomKey:" + randomKey + "&signature:" + mac
	return "IYZWSv2 " + base64.StdEncoding.EncodeToString([]byte(params))
}

func succeededFromIyzico(resp iyzicoResponse, raw json.RawMessage) entities.ChargeSucceeded {
	return entities.ChargeSucceeded{
		ProviderReference: resp.PaymentID,
		CardLastFour:      resp.LastFourDigits,
		CardBrand:         entities.ParseCardBrand(resp.CardAssociation),
		CardToken:         resp.CardToken,
		CardUserKey:       resp.CardUserKey,
		BankReference:     resp.AuthCode,
		Raw:               raw,
	}
}

func buildIyzicoPaymentRequest(req entities.ChargeRequest) (iyzicoPaymentRequest, error) {
	card, err := iyzicoCard(req.Credentials)
	if err != nil {
		return iyzicoPaymentRequest{}, err
	}

	snap := req.Snapshot
	cust := snap.Customer
	identity := cust.IdentityNumber
	if identity == "" {
		identity = iyzicoPlaceholderTCK
	}
	ip := cust.IP
	if ip == "" {
		ip = "127.0.0.1"
	}

	out := iyzicoPaymentRequest{
		Locale:         iyzicoDefaultLocale,
		ConversationID: req.ConversationID,
		Price:          req.Amount.StringFixed(2),
		PaidPrice:      req.Amount.StringFixed(2),
		Currency:       req.Currency,
		Installment:    max(req.Installments, 1),
		BasketID:       req.BasketID,
		PaymentChannel: "WEB",
		PaymentGroup:   "PRODUCT",
		PaymentCard:    card,
		Buyer: iyzicoBuyer{
			ID:                  cust.ID,
			Name:                cust.FirstName,
			Surname:             cust.LastName,
			GsmNumber:           cust.Phone,
			Email:               cust.Email,
			IdentityNumber:      identity,
			RegistrationAddress: snap.BillingAddress.Line,
			IP:                  ip,
			City:                snap.BillingAddress.City,
			Country:             snap.BillingAddress.Country,
			ZipCode:             snap.BillingAddress.ZipCode,
		},
		ShippingAddress: toIyzicoAddress(snap.ShippingAddress),
		BillingAddress:  toIyzicoAddress(snap.BillingAddress),
	}
	if req.Use3DSecure {
		out.CallbackURL = req.CallbackURL
	}
	for _, l := range snap.Items {
		id := l.ProductID
		if l.VariantID != "" {
			id += ":" + l.VariantID
		}
		category := l.Category
		if category == "" {
			category = "General"
		}
		out.BasketItems = append(out.BasketItems, iyzicoBasketItem{
			ID:        id,
			Name:      l.Name,
			Category1: category,
			ItemType:  "PHYSICAL",
			Price:     l.LineTotal().StringFixed(2),
		})
	}
	return out, nil
}

func iyzicoCard(c entities.ChargeCredentials) (iyzicoPaymentCard, error) {
	switch {
	case c.SavedCard != nil:
		return iyzicoPaymentCard{CardUserKey: c.SavedCard.ProviderUserKey, CardToken: c.SavedCard.ProviderToken}, nil
	case c.Card != nil:
		register := 0
		if c.Card.Save {
			register = 1
		}
		return iyzicoPaymentCard{
			CardHolderName: c.Card.HolderName,
			CardNumber:     c.Card.Digits(),
			ExpireMonth:    c.Card.ExpireMonth,
			ExpireYear:     c.Card.ExpireYear,
			CVC:            c.Card.CVC,
			RegisterCard:   &register,
		}, nil
	}
	return iyzicoPaymentCard{}, entities.NewGatewayError(entities.GatewayErrorRejected, "CARD_REQUIRED", "no card or saved card supplied", nil)
}

func toIyzicoAddress(a entities.Address) iyzicoAddress {
	return iyzicoAddress{ContactName: a.ContactName, City: a.City, Country: a.Country, Address: a.Line, ZipCode: a.ZipCode}
}

func newRandomKey() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + hex.EncodeToString(b)
}
