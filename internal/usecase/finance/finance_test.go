package finance

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

var loc = timezone.Location("America/Sao_Paulo")

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedSubscription(t *testing.T, db *gorm.DB, name string, amount string, billingDay int) models.Subscription {
	t.Helper()

	client := models.Client{Name: name, Phone: "92999990000"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	sub := models.Subscription{
		ClientID:   client.ID,
		PlanName:   "Plano Corte",
		Amount:     decimal.RequireFromString(amount),
		BillingDay: billingDay,
		Status:     "ACTIVE",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, loc),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}

func countCycle(t *testing.T, db *gorm.DB, subID uint, period string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.AccountReceivable{}).
		Where("subscription_id = ? AND billing_period = ?", subID, period).
		Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// ======================================================
// SWEEP
// ======================================================

func TestSweepMarksPastDueAsOverdue(t *testing.T) {
	db := testdb.New(t)

	now := time.Date(2025, 3, 10, 1, 0, 0, 0, loc)
	today := timezone.StartOfDay(now, loc)

	pastDue := models.AccountReceivable{Description: "vencida", Amount: decimal.NewFromInt(10), DueDate: today.AddDate(0, 0, -2), Status: "PENDING"}
	dueToday := models.AccountReceivable{Description: "hoje", Amount: decimal.NewFromInt(10), DueDate: today, Status: "PENDING"}
	tomorrow := models.AccountReceivable{Description: "amanhã", Amount: decimal.NewFromInt(10), DueDate: today.AddDate(0, 0, 1), Status: "PENDING"}
	paid := models.AccountReceivable{Description: "paga", Amount: decimal.NewFromInt(10), DueDate: today.AddDate(0, 0, -5), Status: "PAID"}
	payable := models.AccountPayable{Description: "aluguel", Amount: decimal.NewFromInt(900), DueDate: today.AddDate(0, 0, -1), Status: "PENDING"}

	for _, rec := range []*models.AccountReceivable{&pastDue, &dueToday, &tomorrow, &paid} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := db.Create(&payable).Error; err != nil {
		t.Fatalf("seed payable: %v", err)
	}

	s := NewSweeper(db, loc, discard())
	s.now = func() time.Time { return now }

	res, err := s.Execute(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Receivables != 1 || res.Payables != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	want := map[uint]string{
		pastDue.ID:  "OVERDUE",
		dueToday.ID: "PENDING",
		tomorrow.ID: "PENDING",
		paid.ID:     "PAID",
	}
	for id, status := range want {
		var rec models.AccountReceivable
		db.First(&rec, id)
		if rec.Status != status {
			t.Fatalf("receivable %s: status %s, want %s", rec.Description, rec.Status, status)
		}
	}

	// second run changes nothing
	res, err = s.Execute(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Receivables != 0 || res.Payables != 0 {
		t.Fatalf("sweep must be idempotent, got %+v", res)
	}
}

func TestSweepExpiresEndedSubscriptions(t *testing.T) {
	db := testdb.New(t)

	sub := seedSubscription(t, db, "Ana", "89.90", 10)
	ended := time.Date(2025, 2, 28, 0, 0, 0, 0, loc)
	db.Model(&sub).Update("end_date", ended)

	s := NewSweeper(db, loc, discard())
	s.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, loc) }

	res, err := s.Execute(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Subscriptions != 1 {
		t.Fatalf("expected one expired subscription, got %+v", res)
	}

	var got models.Subscription
	db.First(&got, sub.ID)
	if got.Status != "EXPIRED" {
		t.Fatalf("status = %s", got.Status)
	}
}

// ======================================================
// RECONCILER
// ======================================================

func TestEnsureCycleCreatesOnce(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana", "89.90", 10)
	r := NewReconciler(db, loc, nil, discard())

	due := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	first, created, err := r.EnsureCycle(context.Background(), sub.ID, due)
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	if first.BillingPeriod != "2025-03" || first.PayerName != "Ana" || !first.Amount.Equal(decimal.RequireFromString("89.90")) {
		t.Fatalf("unexpected receivable %+v", first)
	}

	// another day of the same month is the same cycle
	second, created, err := r.EnsureCycle(context.Background(), sub.ID, due.AddDate(0, 0, 5))
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the existing row %d, got %d", first.ID, second.ID)
	}

	if n := countCycle(t, db, sub.ID, "2025-03"); n != 1 {
		t.Fatalf("expected 1 receivable, got %d", n)
	}
}

func TestEnsureCycleFindsLegacyRowWithoutPeriod(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana", "89.90", 10)
	r := NewReconciler(db, loc, nil, discard())

	subID := sub.ID
	legacy := models.AccountReceivable{
		Description:    "Assinatura",
		Amount:         sub.Amount,
		DueDate:        time.Date(2025, 3, 5, 0, 0, 0, 0, loc),
		Status:         "PENDING",
		SubscriptionID: &subID,
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, created, err := r.EnsureCycle(context.Background(), sub.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, loc))
	if err != nil || created || got.ID != legacy.ID {
		t.Fatalf("expected legacy row, got %+v created=%v err=%v", got, created, err)
	}
}

// testdb has a single connection, so these calls run one after the other
// and the second one takes the existing-row path. The insert race itself is
// covered by TestUniqueIndexRejectsSecondCycleRow and
// TestConflictReturnsWinnerRow.
func TestEnsureCycleConcurrentCallsLeaveOneRow(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana", "89.90", 10)
	r := NewReconciler(db, loc, nil, discard())

	due := time.Date(2025, 4, 10, 0, 0, 0, 0, loc)

	var wg sync.WaitGroup
	ids := make([]uint, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, _, err := r.EnsureCycle(context.Background(), sub.ID, due)
			errs[i] = err
			if rec != nil {
				ids[i] = rec.ID
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
	}
	if ids[0] != ids[1] {
		t.Fatalf("both callers must see the same row, got %v", ids)
	}
	if n := countCycle(t, db, sub.ID, "2025-04"); n != 1 {
		t.Fatalf("expected 1 receivable, got %d", n)
	}
}

func TestUniqueIndexRejectsSecondCycleRow(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana", "89.90", 10)

	subID := sub.ID
	row := func() *models.AccountReceivable {
		return &models.AccountReceivable{
			Description:    "Assinatura",
			Amount:         sub.Amount,
			DueDate:        time.Date(2025, 5, 10, 0, 0, 0, 0, loc),
			BillingPeriod:  "2025-05",
			Status:         "PENDING",
			SubscriptionID: &subID,
		}
	}

	if err := db.Create(row()).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := db.Create(row()).Error; !httperr.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestConflictReturnsWinnerRow(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana", "89.90", 10)
	r := NewReconciler(db, loc, nil, discard())

	subID := sub.ID
	due := time.Date(2025, 5, 10, 0, 0, 0, 0, loc)
	row := func() *models.AccountReceivable {
		return &models.AccountReceivable{
			Description:    "Assinatura",
			Amount:         sub.Amount,
			DueDate:        due,
			BillingPeriod:  "2025-05",
			Status:         "PENDING",
			SubscriptionID: &subID,
		}
	}

	winner := row()
	if err := db.Create(winner).Error; err != nil {
		t.Fatalf("winner insert: %v", err)
	}
	conflict := db.Create(row()).Error
	if !httperr.IsUniqueViolation(conflict) {
		t.Fatalf("expected unique violation, got %v", conflict)
	}

	got, created, err := r.winnerAfterConflict(context.Background(), sub.ID, due, conflict)
	if err != nil || created || got.ID != winner.ID {
		t.Fatalf("expected winner %d, got %+v created=%v err=%v", winner.ID, got, created, err)
	}

	// nothing to re-read: the original error is kept
	_, _, err = r.winnerAfterConflict(context.Background(), sub.ID, due.AddDate(0, 1, 0), conflict)
	if err != conflict {
		t.Fatalf("expected the conflict error back, got %v", err)
	}
}

func TestReconcileMonthSkipsEndedSubscriptions(t *testing.T) {
	db := testdb.New(t)
	running := seedSubscription(t, db, "Ana", "89.90", 10)
	ended := seedSubscription(t, db, "Bruno", "89.90", 10)

	// still ACTIVE because the sweep has not run yet
	db.Model(&ended).Update("end_date", time.Date(2025, 5, 31, 0, 0, 0, 0, loc))
	db.Model(&running).Update("end_date", time.Date(2025, 6, 1, 0, 0, 0, 0, loc))

	r := NewReconciler(db, loc, nil, discard())
	res, err := r.ReconcileMonth(context.Background(), 2025, time.June)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Checked != 1 || res.Created != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if n := countCycle(t, db, ended.ID, "2025-06"); n != 0 {
		t.Fatal("subscription ended in May must not be billed for June")
	}
	if n := countCycle(t, db, running.ID, "2025-06"); n != 1 {
		t.Fatal("subscription ending on June 1st is billed for June")
	}
}

func TestReconcileMonthTwiceKeepsOneRowPerSubscription(t *testing.T) {
	db := testdb.New(t)
	a := seedSubscription(t, db, "Ana", "89.90", 5)
	b := seedSubscription(t, db, "Bruno", "120.00", 28)

	canceled := seedSubscription(t, db, "Carla", "50.00", 10)
	db.Model(&canceled).Update("status", "CANCELED")

	r := NewReconciler(db, loc, nil, discard())

	res, err := r.ReconcileMonth(context.Background(), 2025, time.June)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Checked != 2 || res.Created != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	res, err = r.ReconcileMonth(context.Background(), 2025, time.June)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if res.Created != 0 {
		t.Fatalf("second run must not create, got %+v", res)
	}

	for _, sub := range []models.Subscription{a, b} {
		if n := countCycle(t, db, sub.ID, "2025-06"); n != 1 {
			t.Fatalf("subscription %d: %d receivables", sub.ID, n)
		}
	}
	if n := countCycle(t, db, canceled.ID, "2025-06"); n != 0 {
		t.Fatalf("canceled subscription must not be billed")
	}
}

// ======================================================
// DEDUPE
// ======================================================

func TestDedupePrefersSystemRowAndMovesPayment(t *testing.T) {
	db := testdb.New(t)
	sub := seedSubscription(t, db, "Ana Souza", "89.90", 10)
	seedSubscription(t, db, "Bruno", "89.90", 10)

	subID := sub.ID
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	paidAt := time.Date(2025, 3, 9, 15, 0, 0, 0, loc)

	manualPaid := models.AccountReceivable{
		Description: "mensalidade ana",
		PayerName:   " ana souza",
		Amount:      decimal.RequireFromString("89.9"),
		DueDate:     due.AddDate(0, 0, 2),
		Status:      "PAID",
		PaymentDate: &paidAt,
	}
	system := models.AccountReceivable{
		Description:    "Assinatura",
		PayerName:      "Ana Souza",
		Amount:         sub.Amount,
		DueDate:        due,
		BillingPeriod:  "2025-03",
		Status:         "PENDING",
		SubscriptionID: &subID,
	}
	// different amount: not a duplicate
	unrelated := models.AccountReceivable{
		Description: "produto",
		PayerName:   "Ana Souza",
		Amount:      decimal.RequireFromString("35.00"),
		DueDate:     due,
		Status:      "PENDING",
	}

	for _, rec := range []*models.AccountReceivable{&manualPaid, &system, &unrelated} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	pixLink := models.PaymentLink{
		ReceivableID: manualPaid.ID,
		Provider:     "mercadopago",
		Kind:         "pix",
		Amount:       manualPaid.Amount,
		Reference:    "999",
		ExternalID:   "777",
	}
	if err := db.Create(&pixLink).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	r := NewReconciler(db, loc, nil, discard())
	res, err := r.Dedupe(context.Background())
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if res.Groups != 1 || res.Removed != 1 || res.PaymentsMoved != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	var kept models.AccountReceivable
	if err := db.First(&kept, system.ID).Error; err != nil {
		t.Fatalf("system row must survive: %v", err)
	}
	if kept.Status != string(domain.StatusPaid) || kept.PaymentDate == nil {
		t.Fatalf("payment must move to the kept row, got %+v", kept)
	}

	var link models.PaymentLink
	db.First(&link, pixLink.ID)
	if link.ReceivableID != system.ID || link.Reference != "999" {
		t.Fatalf("link must follow the kept row, got %+v", link)
	}

	var n int64
	db.Model(&models.AccountReceivable{}).Where("id = ?", manualPaid.ID).Count(&n)
	if n != 0 {
		t.Fatal("manual duplicate must be removed")
	}
	db.Model(&models.AccountReceivable{}).Where("id = ?", unrelated.ID).Count(&n)
	if n != 1 {
		t.Fatal("unrelated receivable must stay")
	}
}

func TestDedupeAllManualKeepsEarliest(t *testing.T) {
	db := testdb.New(t)
	seedSubscription(t, db, "Ana", "89.90", 10)

	due := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, loc)

	var ids []uint
	for i := 0; i < 3; i++ {
		rec := models.AccountReceivable{
			Description: "mensalidade",
			PayerName:   "Ana",
			Amount:      decimal.RequireFromString("89.90"),
			DueDate:     due,
			Status:      "PENDING",
			CreatedAt:   created.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	r := NewReconciler(db, loc, nil, discard())
	res, err := r.Dedupe(context.Background())
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if res.Removed != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	var left []models.AccountReceivable
	db.Find(&left)
	if len(left) != 1 || left[0].ID != ids[0] {
		t.Fatalf("expected only the earliest row %d, got %+v", ids[0], left)
	}
}

// ======================================================
// PAY
// ======================================================

func TestPayReceivable(t *testing.T) {
	db := testdb.New(t)
	rec := models.AccountReceivable{Description: "x", Amount: decimal.NewFromInt(10), DueDate: time.Now(), Status: "OVERDUE"}
	db.Create(&rec)

	uc := NewPayAccounts(db, loc, nil)

	got, err := uc.Receivable(context.Background(), PayInput{ID: rec.ID})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if got.Status != "PAID" || got.PaymentDate == nil {
		t.Fatalf("unexpected %+v", got)
	}

	if _, err := uc.Receivable(context.Background(), PayInput{ID: rec.ID}); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("paying twice: %v", err)
	}
	if _, err := uc.Payable(context.Background(), PayInput{ID: 999}); !httperr.IsBusiness(err, "payable_not_found") {
		t.Fatalf("missing payable: %v", err)
	}
}
