package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is one receivable that may belong to a subscription cycle.
// System rows carry the subscription id; manual rows were typed in by staff.
type Candidate struct {
	ID          uint
	System      bool
	Status      Status
	PaymentDate *time.Time
	CreatedAt   time.Time
}

// Plan says which row survives and what happens to the rest.
type Plan struct {
	Keep   Candidate
	Remove []uint

	// Set when a removed row was PAID and the keeper was not.
	TransferPayment bool
	PaymentDate     *time.Time
}

// Resolve keeps the earliest-created system row, or the earliest manual row
// when no system row exists. Ties on created_at break on id.
func Resolve(candidates []Candidate) (Plan, bool) {
	if len(candidates) < 2 {
		return Plan{}, false
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].System != sorted[j].System {
			return sorted[i].System
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	plan := Plan{Keep: sorted[0]}
	for _, c := range sorted[1:] {
		plan.Remove = append(plan.Remove, c.ID)

		if c.Status == StatusPaid && plan.Keep.Status != StatusPaid && !plan.TransferPayment {
			plan.TransferPayment = true
			plan.PaymentDate = c.PaymentDate
		}
	}
	return plan, true
}

// SamePayer compares payer names the way staff type them.
func SamePayer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Matches reports whether a manual receivable looks like the system
// receivable of a subscription cycle.
func Matches(clientName string, amount decimal.Decimal, period string, payer string, manualAmount decimal.Decimal, manualDue time.Time, loc *time.Location) bool {
	return SamePayer(clientName, payer) &&
		amount.Equal(manualAmount) &&
		Period(manualDue, loc) == period
}
