package finance

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

// ===============================
// Account Status
// ===============================

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

const CategorySubscription = "assinatura"

// CanPay allows PENDING and OVERDUE accounts to be settled.
func CanPay(current Status) error {
	if current == StatusPaid {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// ===============================
// Billing period
// ===============================

// Period is the "YYYY-MM" billing period of t in loc.
func Period(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// DueDate is billingDay of the given month in loc. Days past the end of the
// month are clamped to the last day.
func DueDate(year int, month time.Month, billingDay int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if billingDay > last {
		billingDay = last
	}
	if billingDay < 1 {
		billingDay = 1
	}
	return time.Date(year, month, billingDay, 0, 0, 0, 0, loc)
}

func ValidBillingDay(day int) bool {
	return day >= 1 && day <= 28
}
