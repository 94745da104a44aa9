package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummary(t *testing.T) {
	db := testdb.New(t)
	loc := timezone.Location("America/Sao_Paulo")

	barber := models.Barber{Name: "Carlos", Active: true}
	db.Create(&barber)

	at := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)
	outside := time.Date(2025, 4, 2, 10, 0, 0, 0, loc)

	covered := models.Appointment{
		BarberID: barber.ID, StartTime: at, EndTime: at.Add(30 * time.Minute), Status: "completed",
		TotalAmount: d("0"), WorkedHoursSubscription: d("0.5"),
		Services: []models.AppointmentService{{ServiceID: 1, Price: d("50"), BilledPrice: d("0"), Covered: true}},
	}
	billed := models.Appointment{
		BarberID: barber.ID, StartTime: at.Add(time.Hour), EndTime: at.Add(90 * time.Minute), Status: "completed",
		TotalAmount: d("50"), WorkedHours: d("0.5"),
		Services: []models.AppointmentService{{ServiceID: 2, Price: d("50"), BilledPrice: d("50")}},
	}
	canceled := models.Appointment{
		BarberID: barber.ID, StartTime: at, EndTime: at, Status: "canceled", TotalAmount: d("70"),
	}
	later := models.Appointment{
		BarberID: barber.ID, StartTime: outside, EndTime: outside, Status: "completed", TotalAmount: d("90"),
	}
	for _, ap := range []*models.Appointment{&covered, &billed, &canceled, &later} {
		if err := db.Omit("Barber", "Client").Create(ap).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	db.Omit("Barber").Create(&models.Commission{BarberID: barber.ID, BaseAmount: d("50"), Percentage: d("40"), Amount: d("20"), Status: "PENDING"})
	db.Omit("Barber").Create(&models.Commission{BarberID: barber.ID, BaseAmount: d("50"), Percentage: d("40"), Amount: d("20"), Status: "PAID"})

	db.Create(&models.AccountReceivable{Description: "a", Amount: d("89.90"), DueDate: at, Status: "PENDING"})
	db.Create(&models.AccountReceivable{Description: "b", Amount: d("10.10"), DueDate: at, Status: "PENDING"})
	db.Create(&models.AccountPayable{Description: "luz", Amount: d("300"), DueDate: at, Status: "OVERDUE"})

	now := time.Now().In(loc)
	s, err := NewGetSummary(db, loc).Execute(context.Background(), "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Appointments != 2 || !s.Revenue.Equal(d("50")) || s.CoveredServices != 1 {
		t.Fatalf("unexpected appointment totals %+v", s)
	}
	if !s.WorkedHours.Equal(d("0.5")) || !s.WorkedHoursSubsc.Equal(d("0.5")) {
		t.Fatalf("unexpected hours %s / %s", s.WorkedHours, s.WorkedHoursSubsc)
	}
	if len(s.Receivables) != 1 || s.Receivables[0].Count != 2 || !s.Receivables[0].Total.Equal(d("100")) {
		t.Fatalf("unexpected receivables %+v", s.Receivables)
	}
	if len(s.Payables) != 1 || s.Payables[0].Status != "OVERDUE" {
		t.Fatalf("unexpected payables %+v", s.Payables)
	}

	// commissions are grouped by creation date
	s, err = NewGetSummary(db, loc).Execute(context.Background(),
		now.AddDate(0, 0, -1).Format("2006-01-02"),
		now.AddDate(0, 0, 1).Format("2006-01-02"),
	)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(s.Commissions) != 1 || !s.Commissions[0].Pending.Equal(d("20")) || !s.Commissions[0].Paid.Equal(d("20")) {
		t.Fatalf("unexpected commissions %+v", s.Commissions)
	}
}

func TestSummaryRejectsBadPeriod(t *testing.T) {
	db := testdb.New(t)
	uc := NewGetSummary(db, timezone.Location("America/Sao_Paulo"))

	if _, err := uc.Execute(context.Background(), "2025-03-31", "2025-03-01"); !httperr.IsBusiness(err, "invalid_period") {
		t.Fatalf("expected invalid_period, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), "março", "2025-03-01"); !httperr.IsBusiness(err, "invalid_period") {
		t.Fatalf("expected invalid_period, got %v", err)
	}
}
