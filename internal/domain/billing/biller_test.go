package billing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/domain/entitlement"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int { return &v }

func TestBillWithoutSubscription(t *testing.T) {
	res := Bill([]Line{
		{ServiceID: 1, Price: price("50.00"), DurationMin: 30},
		{ServiceID: 2, Price: price("35.50"), DurationMin: 20},
	}, []ProductLine{{Quantity: 2, UnitPrice: price("10.25")}}, nil)

	if !res.ServicesTotal.Equal(price("85.50")) {
		t.Fatalf("services total = %s", res.ServicesTotal)
	}
	if !res.Total.Equal(price("106.00")) {
		t.Fatalf("total = %s", res.Total)
	}
	if res.AnyCovered() || res.WorkedMinutes != 50 || res.WorkedMinutesSubscription != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBillUnlimitedCoverageIsFree(t *testing.T) {
	ent := &Entitlement{SubscriptionID: 9, Services: entitlement.NewSet(1)}

	for _, p := range []string{"50.00", "120.00", "0.01"} {
		res := Bill([]Line{{ServiceID: 1, Price: price(p), DurationMin: 30}}, nil, ent)
		if !res.Total.IsZero() {
			t.Fatalf("covered service priced %s should bill 0, got %s", p, res.Total)
		}
		if !res.Lines[0].Covered || res.UsageConsumed != 1 {
			t.Fatalf("expected covered line, got %+v", res.Lines[0])
		}
	}
}

func TestBillUsageLimitBillsNextUse(t *testing.T) {
	for k := 0; k <= 3; k++ {
		ent := &Entitlement{
			Services:   entitlement.NewSet(1),
			UsageLimit: intPtr(k),
			UsedCount:  k,
		}
		res := Bill([]Line{{ServiceID: 1, Price: price("50.00")}}, nil, ent)
		if !res.Total.Equal(price("50.00")) {
			t.Fatalf("limit %d with %d uses: expected full price, got %s", k, k, res.Total)
		}
		if res.Lines[0].Covered {
			t.Fatalf("limit %d: line must not be covered", k)
		}
	}
}

func TestBillLimitReachedMidAppointment(t *testing.T) {
	ent := &Entitlement{
		Services:   entitlement.NewSet(1, 2),
		UsageLimit: intPtr(4),
		UsedCount:  3,
	}

	res := Bill([]Line{
		{ServiceID: 1, Price: price("50.00"), DurationMin: 30},
		{ServiceID: 2, Price: price("30.00"), DurationMin: 15},
		{ServiceID: 3, Price: price("20.00"), DurationMin: 10},
	}, nil, ent)

	if !res.Lines[0].Covered || res.Lines[1].Covered || res.Lines[2].Covered {
		t.Fatalf("only the first line should be covered: %+v", res.Lines)
	}
	if !res.Total.Equal(price("50.00")) {
		t.Fatalf("total = %s", res.Total)
	}
	if res.WorkedMinutesSubscription != 30 || res.WorkedMinutes != 25 {
		t.Fatalf("worked minutes %d/%d", res.WorkedMinutes, res.WorkedMinutesSubscription)
	}
}

func TestBillUncoveredService(t *testing.T) {
	ent := &Entitlement{Services: entitlement.NewSet(1)}
	res := Bill([]Line{{ServiceID: 2, Price: price("50.00")}}, nil, ent)
	if !res.Total.Equal(price("50.00")) || res.AnyCovered() {
		t.Fatalf("uncovered service must be billed, got %+v", res)
	}
}

func TestHours(t *testing.T) {
	if got := Hours(90); !got.Equal(price("1.5")) {
		t.Fatalf("Hours(90) = %s", got)
	}
	if got := Hours(20); !got.Equal(price("0.33")) {
		t.Fatalf("Hours(20) = %s", got)
	}
}
