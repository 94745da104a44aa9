package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

func TestPeriodUsesBusinessTimezone(t *testing.T) {
	loc := timezone.Location("America/Sao_Paulo")

	// 01:30 UTC on March 1st is still February in São Paulo.
	utc := time.Date(2025, time.March, 1, 1, 30, 0, 0, time.UTC)
	if got := Period(utc, loc); got != "2025-02" {
		t.Fatalf("Period = %s, want 2025-02", got)
	}
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	loc := time.UTC
	got := DueDate(2025, time.February, 31, loc)
	if got.Day() != 28 || got.Month() != time.February {
		t.Fatalf("DueDate = %s", got)
	}
	got = DueDate(2025, time.April, 10, loc)
	if got.Day() != 10 {
		t.Fatalf("DueDate = %s", got)
	}
}

func TestValidBillingDay(t *testing.T) {
	for _, d := range []int{1, 15, 28} {
		if !ValidBillingDay(d) {
			t.Fatalf("%d should be valid", d)
		}
	}
	for _, d := range []int{0, 29, 31, -1} {
		if ValidBillingDay(d) {
			t.Fatalf("%d should be invalid", d)
		}
	}
}

func TestCanPay(t *testing.T) {
	if CanPay(StatusPending) != nil || CanPay(StatusOverdue) != nil {
		t.Fatal("pending and overdue accounts must be payable")
	}
	if CanPay(StatusPaid) == nil {
		t.Fatal("paid account must not be payable again")
	}
}

func TestResolveKeepsEarliestSystemRow(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	plan, ok := Resolve([]Candidate{
		{ID: 1, System: false, Status: StatusPending, CreatedAt: base},
		{ID: 2, System: true, Status: StatusPending, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, System: true, Status: StatusPending, CreatedAt: base.Add(time.Hour)},
	})
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Keep.ID != 3 {
		t.Fatalf("kept %d, want 3", plan.Keep.ID)
	}
	if len(plan.Remove) != 2 || plan.Remove[0] != 2 || plan.Remove[1] != 1 {
		t.Fatalf("removed %v", plan.Remove)
	}
	if plan.TransferPayment {
		t.Fatal("nothing was paid")
	}
}

func TestResolveFallsBackToEarliestManualRow(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	plan, _ := Resolve([]Candidate{
		{ID: 8, Status: StatusPending, CreatedAt: base},
		{ID: 5, Status: StatusPending, CreatedAt: base},
		{ID: 9, Status: StatusPending, CreatedAt: base.Add(-time.Minute)},
	})
	if plan.Keep.ID != 9 {
		t.Fatalf("kept %d, want 9", plan.Keep.ID)
	}
	if plan.Remove[0] != 5 || plan.Remove[1] != 8 {
		t.Fatalf("ties must break on id, got %v", plan.Remove)
	}
}

func TestResolveTransfersPayment(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	paidAt := base.Add(48 * time.Hour)

	plan, _ := Resolve([]Candidate{
		{ID: 1, System: true, Status: StatusPending, CreatedAt: base},
		{ID: 2, Status: StatusPaid, PaymentDate: &paidAt, CreatedAt: base.Add(time.Hour)},
	})
	if !plan.TransferPayment || plan.PaymentDate == nil || !plan.PaymentDate.Equal(paidAt) {
		t.Fatalf("expected payment transfer, got %+v", plan)
	}

	plan, _ = Resolve([]Candidate{
		{ID: 1, System: true, Status: StatusPaid, CreatedAt: base},
		{ID: 2, Status: StatusPaid, PaymentDate: &paidAt, CreatedAt: base.Add(time.Hour)},
	})
	if plan.TransferPayment {
		t.Fatal("keeper already paid, nothing to transfer")
	}
}

func TestResolveSingleCandidate(t *testing.T) {
	if _, ok := Resolve([]Candidate{{ID: 1, System: true}}); ok {
		t.Fatal("a single row is not a duplicate")
	}
}

func TestMatches(t *testing.T) {
	loc := time.UTC
	amount := decimal.RequireFromString("89.90")
	due := time.Date(2025, 3, 20, 0, 0, 0, 0, loc)

	if !Matches("João Silva", amount, "2025-03", "  joão silva ", decimal.RequireFromString("89.9"), due, loc) {
		t.Fatal("expected match")
	}
	if Matches("João Silva", amount, "2025-03", "João Souza", amount, due, loc) {
		t.Fatal("different payer must not match")
	}
	if Matches("João Silva", amount, "2025-04", "João Silva", amount, due, loc) {
		t.Fatal("different month must not match")
	}
}
