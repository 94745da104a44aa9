package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
)

func TestDailyRunSweepsAndReconciles(t *testing.T) {
	db := testdb.New(t)
	loc := timezone.Location("America/Sao_Paulo")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := models.Client{Name: "Ana", Phone: "5592999990000"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	sub := models.Subscription{
		ClientID:   client.ID,
		PlanName:   "Plano Corte",
		Amount:     decimal.RequireFromString("89.90"),
		BillingDay: 10,
		Status:     "ACTIVE",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, loc),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	rent := models.AccountPayable{
		Description: "aluguel",
		Amount:      decimal.NewFromInt(900),
		DueDate:     time.Date(2024, 12, 5, 0, 0, 0, 0, loc),
		Status:      "PENDING",
	}
	if err := db.Create(&rent).Error; err != nil {
		t.Fatalf("seed payable: %v", err)
	}

	daily := NewDaily(finance.NewSweeper(db, loc, log), finance.NewReconciler(db, loc, nil, log), loc, log)
	daily.now = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, loc) }

	res, err := daily.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Sweep.Payables != 1 {
		t.Fatalf("expected 1 overdue payable, got %d", res.Sweep.Payables)
	}
	if res.Reconcile.Checked != 1 || res.Reconcile.Created != 1 {
		t.Fatalf("unexpected reconcile result %+v", res.Reconcile)
	}

	var rec models.AccountReceivable
	if err := db.Where("subscription_id = ?", sub.ID).First(&rec).Error; err != nil {
		t.Fatalf("receivable not created: %v", err)
	}
	if rec.BillingPeriod != "2025-03" || rec.DueDate.In(loc).Day() != 10 {
		t.Fatalf("unexpected cycle %s due %s", rec.BillingPeriod, rec.DueDate)
	}

	res, err = daily.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Reconcile.Created != 0 || res.Sweep.Payables != 0 {
		t.Fatalf("second run must be a no-op, got %+v", res)
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	daily := NewDaily(nil, nil, time.UTC, log)

	if _, err := daily.Schedule("not a cron"); err == nil {
		t.Fatal("expected invalid spec error")
	}
	c, err := daily.Schedule("0 3 * * *")
	if err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one entry, got %d", len(c.Entries()))
	}
}
