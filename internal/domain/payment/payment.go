// Package payment holds the gateway-neutral types for receivable payment
// links.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindCheckout Kind = "checkout"
	KindPix      Kind = "pix"
)

func (k Kind) Valid() bool {
	return k == KindCheckout || k == KindPix
}

// StatusApproved is the only gateway status that settles a receivable.
const StatusApproved = "approved"

type ChargeRequest struct {
	Reference   string
	Description string
	Amount      decimal.Decimal
	PayerEmail  string
}

type Charge struct {
	ExternalID string
	URL        string
	QRCode     string
	Status     string
	Raw        any
}

type PaymentInfo struct {
	ID        string
	Status    string
	Reference string
	Amount    decimal.Decimal
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req ChargeRequest) (*Charge, error)
	CreatePix(ctx context.Context, req ChargeRequest) (*Charge, error)
	GetPayment(ctx context.Context, id string) (*PaymentInfo, error)
}
