package billing

import (
	"github.com/shopspring/decimal"
)

// Coverage describes what an active subscription grants for one appointment.
// A nil Coverage bills everything.
type Coverage interface {
	Covers(serviceID uint) bool
}

type Entitlement struct {
	SubscriptionID uint
	Services       Coverage

	// nil means unlimited.
	UsageLimit *int
	// Covered uses already recorded in the current billing period.
	UsedCount int
}

type Line struct {
	ServiceID   uint
	Price       decimal.Decimal
	DurationMin int
}

type BilledLine struct {
	Line
	Billed  decimal.Decimal
	Covered bool
}

type ProductLine struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

type Result struct {
	Lines []BilledLine

	ServicesTotal decimal.Decimal
	ProductsTotal decimal.Decimal
	Total         decimal.Decimal

	// Uses consumed by this appointment.
	UsageConsumed int

	WorkedMinutes             int
	WorkedMinutesSubscription int
}

func (r Result) AnyCovered() bool {
	return r.UsageConsumed > 0
}

// Bill walks the lines in order. A covered line costs nothing while the
// entitlement still has uses left; past the limit it is billed at its
// snapshot price.
func Bill(lines []Line, products []ProductLine, ent *Entitlement) Result {
	res := Result{
		Lines:         make([]BilledLine, 0, len(lines)),
		ServicesTotal: decimal.Zero,
		ProductsTotal: decimal.Zero,
	}

	used := 0
	if ent != nil {
		used = ent.UsedCount
	}

	for _, l := range lines {
		bl := BilledLine{Line: l, Billed: l.Price}

		if ent != nil && ent.Services != nil && ent.Services.Covers(l.ServiceID) && hasUsesLeft(ent.UsageLimit, used) {
			bl.Billed = decimal.Zero
			bl.Covered = true
			used++
			res.UsageConsumed++
			res.WorkedMinutesSubscription += l.DurationMin
		} else {
			res.WorkedMinutes += l.DurationMin
		}

		res.ServicesTotal = res.ServicesTotal.Add(bl.Billed)
		res.Lines = append(res.Lines, bl)
	}

	for _, p := range products {
		res.ProductsTotal = res.ProductsTotal.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	res.Total = res.ServicesTotal.Add(res.ProductsTotal)
	return res
}

func hasUsesLeft(limit *int, used int) bool {
	if limit == nil {
		return true
	}
	return used < *limit
}

// Hours converts minutes to hours with two decimals.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}
