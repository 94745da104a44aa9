package commission

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

var hundred = decimal.NewFromInt(100)

// Overrides maps service id → percentage for a single barber.
type Overrides map[uint]decimal.Decimal

// Percentage picks the (barber, service) override when present, otherwise
// the barber's default rate.
func Percentage(overrides Overrides, serviceID uint, barberRate decimal.Decimal) decimal.Decimal {
	if pct, ok := overrides[serviceID]; ok {
		return pct
	}
	return barberRate
}

// Amount is base × pct / 100 rounded half-up to cents.
func Amount(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred).Round(2)
}

// ValidPercentage reports whether pct is within 0..100.
func ValidPercentage(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

// CanPay only allows PENDING → PAID.
func CanPay(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
