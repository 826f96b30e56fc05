package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CheckoutSnapshotVersion is the schema version written into new transactions.
const CheckoutSnapshotVersion = 1

var ErrUnsupportedSnapshotVersion = errors.New("unsupported checkout snapshot version")

// CartLine is one basket line as it was priced at charge time.
type CartLine struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Customer struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	IdentityNumber string `json:"identity_number,omitempty"`
	IP             string `json:"ip,omitempty"`
}

type Address struct {
	ContactName string `json:"contact_name"`
	Line        string `json:"line"`
	City        string `json:"city"`
	Country     string `json:"country"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// CheckoutSnapshot is the versioned cart/customer/address payload carried by a
// transaction from initiation to order materialization.
type CheckoutSnapshot struct {
	Version         int        `json:"version"`
	Items           []CartLine `json:"items"`
	Customer        Customer   `json:"customer"`
	BillingAddress  Address    `json:"billing_address"`
	ShippingAddress Address    `json:"shipping_address"`
}

func (s CheckoutSnapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Items {
		total = total.Add(l.LineTotal())
	}
	return total
}

// CheckSchema fails when the snapshot was written by an unknown schema or is
// missing the data an order needs.
func (s CheckoutSnapshot) CheckSchema() error {
	if s.Version != CheckoutSnapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, s.Version)
	}
	if len(s.Items) == 0 {
		return errors.New("checkout snapshot has no items")
	}
	for i, l := range s.Items {
		if l.ProductID == "" || l.StoreID == "" || l.Quantity < 1 || !l.UnitPrice.IsPositive() {
			return fmt.Errorf("checkout snapshot item %d is malformed", i)
		}
	}
	return nil
}
