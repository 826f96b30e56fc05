package request

import (
	"strings"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase"

	"github.com/shopspring/decimal"
)

type CardRequest struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpireMonth string `json:"expire_month"`
	ExpireYear  string `json:"expire_year"`
	CVC         string `json:"cvc"`
	Token       string `json:"token"`
	Save        bool   `json:"save"`
}

type CartLineRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	VariantID string          `json:"variant_id"`
	StoreID   string          `json:"store_id" binding:"required"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"30.00"`
}

type CustomerRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	IdentityNumber string `json:"identity_number"`
}

type AddressRequest struct {
	ContactName string `json:"contact_name"`
	Line        string `json:"line"`
	City        string `json:"city"`
	Country     string `json:"country"`
	ZipCode     string `json:"zip_code"`
}

// InitiatePaymentRequest is the checkout payload. Exactly one of card or
// saved_card_id must be present.
type InitiatePaymentRequest struct {
	ConversationID  string            `json:"conversation_id"`
	Amount          decimal.Decimal   `json:"amount" swaggertype:"string" example:"100.00"`
	Currency        string            `json:"currency" binding:"required"`
	PaymentMethod   string            `json:"payment_method"`
	Card            *CardRequest      `json:"card"`
	SavedCardID     string            `json:"saved_card_id"`
	BankID          string            `json:"bank_id"`
	Installments    int               `json:"installments"`
	Use3DSecure     bool              `json:"use_3d_secure"`
	ReturnURL       string            `json:"return_url"`
	Items           []CartLineRequest `json:"items" binding:"required,dive"`
	Customer        CustomerRequest   `json:"customer"`
	BillingAddress  AddressRequest    `json:"billing_address"`
	ShippingAddress AddressRequest    `json:"shipping_address"`
}

// ToCommand maps the payload for the authenticated user. The client IP is
// recorded on the customer for providers that require it.
func (r InitiatePaymentRequest) ToCommand(userID, clientIP string) usecase.InitiateCommand {
	cmd := usecase.InitiateCommand{
		UserID:         strings.TrimSpace(userID),
		ConversationID: strings.TrimSpace(r.ConversationID),
		Amount:         r.Amount,
		Currency:       strings.ToUpper(strings.TrimSpace(r.Currency)),
		PaymentMethod:  strings.TrimSpace(r.PaymentMethod),
		SavedCardID:    strings.TrimSpace(r.SavedCardID),
		BankID:         strings.TrimSpace(r.BankID),
		Installments:   r.Installments,
		Use3DSecure:    r.Use3DSecure,
		ReturnURL:      strings.TrimSpace(r.ReturnURL),
		Customer: entities.Customer{
			ID:             strings.TrimSpace(userID),
			FirstName:      r.Customer.FirstName,
			LastName:       r.Customer.LastName,
			Email:          strings.TrimSpace(r.Customer.Email),
			Phone:          r.Customer.Phone,
			IdentityNumber: r.Customer.IdentityNumber,
			IP:             clientIP,
		},
		Billing:  r.BillingAddress.toEntity(),
		Shipping: r.ShippingAddress.toEntity(),
	}
	if cmd.Installments == 0 {
		cmd.Installments = 1
	}
	if r.Card != nil {
		cmd.Card = &entities.CardDetails{
			HolderName:  strings.TrimSpace(r.Card.HolderName),
			Number:      r.Card.Number,
			ExpireMonth: strings.TrimSpace(r.Card.ExpireMonth),
			ExpireYear:  strings.TrimSpace(r.Card.ExpireYear),
			CVC:         strings.TrimSpace(r.Card.CVC),
			Token:       strings.TrimSpace(r.Card.Token),
			Save:        r.Card.Save,
		}
	}
	for _, l := range r.Items {
		cmd.Items = append(cmd.Items, entities.CartLine{
			ProductID: strings.TrimSpace(l.ProductID),
			VariantID: strings.TrimSpace(l.VariantID),
			StoreID:   strings.TrimSpace(l.StoreID),
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return cmd
}

func (a AddressRequest) toEntity() entities.Address {
	return entities.Address{
		ContactName: a.ContactName,
		Line:        a.Line,
		City:        a.City,
		Country:     a.Country,
		ZipCode:     a.ZipCode,
	}
}
