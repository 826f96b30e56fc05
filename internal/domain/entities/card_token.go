package entities

import (
	"strings"
	"time"
)

type CardBrand string

const (
	CardBrandVisa       CardBrand = "VISA"
	CardBrandMastercard CardBrand = "MASTERCARD"
	CardBrandAmex       CardBrand = "AMEX"
	CardBrandTroy       CardBrand = "TROY"
	CardBrandUnknown    CardBrand = "UNKNOWN"
)

// DetectCardType derives the card scheme from the leading digits.
// 9-prefixed numbers belong to the domestic TROY scheme.
func DetectCardType(number string) CardBrand {
	n := digitsOnly(number)
	switch {
	case strings.HasPrefix(n, "4"):
		return CardBrandVisa
	case len(n) >= 2 && n[0] == '5' && n[1] >= '1' && n[1] <= '5':
		return CardBrandMastercard
	case strings.HasPrefix(n, "34"), strings.HasPrefix(n, "37"):
		return CardBrandAmex
	case strings.HasPrefix(n, "9"):
		return CardBrandTroy
	}
	return CardBrandUnknown
}

// ParseCardBrand maps a provider's scheme name ("MASTER_CARD", "master",
// "amex", ...) onto a CardBrand.
func ParseCardBrand(name string) CardBrand {
	switch strings.ToUpper(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(name))) {
	case "VISA", "DEBVISA":
		return CardBrandVisa
	case "MASTER", "MASTERCARD", "DEBMASTER":
		return CardBrandMastercard
	case "AMEX", "AMERICANEXPRESS":
		return CardBrandAmex
	case "TROY":
		return CardBrandTroy
	}
	return CardBrandUnknown
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CardDetails are raw entered card fields. They live only for the duration of
// one charge request and are never persisted or logged.
type CardDetails struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpireMonth string `json:"expire_month"`
	ExpireYear  string `json:"expire_year"`
	CVC         string `json:"cvc"`
	// Token is a single-use card token produced by the provider's browser
	// SDK. When set, Number and CVC stay empty.
	Token string `json:"token,omitempty"`
	// Save asks the vault to keep a reusable token after a successful charge.
	Save bool `json:"save"`
}

func (c CardDetails) Digits() string {
	return digitsOnly(c.Number)
}

func (c CardDetails) LastFour() string {
	d := c.Digits()
	if len(d) < 4 {
		return d
	}
	return d[len(d)-4:]
}

// CardToken is a tokenized reusable charge credential.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (user_id-index): user_id
type CardToken struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	LastFour        string    `json:"last_four"`
	ExpireMonth     string    `json:"expire_month"`
	ExpireYear      string    `json:"expire_year"`
	Brand           CardBrand `json:"brand"`
	BankReference   string    `json:"bank_reference,omitempty"`
	ProviderToken   string    `json:"-"`
	ProviderUserKey string    `json:"-"`
	IsDefault       bool      `json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChargeCredentials is either a raw card or a saved card token, never both.
type ChargeCredentials struct {
	Card      *CardDetails
	SavedCard *CardToken
}

func (c ChargeCredentials) LastFour() string {
	if c.SavedCard != nil {
		return c.SavedCard.LastFour
	}
	if c.Card != nil {
		return c.Card.LastFour()
	}
	return ""
}
