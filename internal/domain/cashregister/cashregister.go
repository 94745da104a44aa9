package cashregister

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

type MovementType string

const (
	MovementEntry MovementType = "ENTRY"
	MovementExit  MovementType = "EXIT"
)

type Movement struct {
	Type   MovementType
	Amount decimal.Decimal
}

func ValidMovement(m Movement) error {
	if m.Type != MovementEntry && m.Type != MovementExit {
		return httperr.ErrBusiness("invalid_movement_type")
	}
	if !m.Amount.IsPositive() {
		return httperr.ErrBusiness("invalid_amount")
	}
	return nil
}

// Expected is initial + Σ ENTRY − Σ EXIT.
func Expected(initial decimal.Decimal, movements []Movement) decimal.Decimal {
	total := initial
	for _, m := range movements {
		switch m.Type {
		case MovementEntry:
			total = total.Add(m.Amount)
		case MovementExit:
			total = total.Sub(m.Amount)
		}
	}
	return total
}

// Difference is positive when the drawer holds more than expected.
func Difference(actual, expected decimal.Decimal) decimal.Decimal {
	return actual.Sub(expected)
}

func CanClose(current Status) error {
	if current != StatusOpen {
		return httperr.ErrBusiness("register_not_open")
	}
	return nil
}
