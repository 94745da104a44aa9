package finance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	"github.com/BruksfildServices01/barber-admin/internal/domain/subscription"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

// Reconciler keeps exactly one receivable per subscription billing cycle.
type Reconciler struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewReconciler(
	db *gorm.DB,
	loc *time.Location,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *Reconciler {
	return &Reconciler{db: db, loc: loc, audit: audit, log: log}
}

// ======================================================
// ENSURE CYCLE
// ======================================================

// EnsureCycle returns the receivable of the cycle containing dueDate,
// creating it when missing. created is false when the row already existed
// or a concurrent caller inserted it first.
func (r *Reconciler) EnsureCycle(
	ctx context.Context,
	subscriptionID uint,
	dueDate time.Time,
) (rec *models.AccountReceivable, created bool, err error) {

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Client").
			First(&sub, subscriptionID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("subscription_not_found")
			}
			return err
		}

		var txErr error
		rec, created, txErr = EnsureCycleTx(tx, &sub, dueDate, r.loc)
		return txErr
	})

	if httperr.IsUniqueViolation(err) {
		return r.winnerAfterConflict(ctx, subscriptionID, dueDate, err)
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		r.audit.Dispatch(audit.Event{
			ActorKind: audit.ActorSystem,
			Action:    "receivable_cycle_created",
			Entity:    "account_receivable",
			EntityID:  &rec.ID,
			Metadata: map[string]any{
				"subscription_id": subscriptionID,
				"billing_period":  rec.BillingPeriod,
			},
		})
	}

	return rec, created, nil
}

// winnerAfterConflict runs when the partial unique index rejected our
// insert: someone else created the cycle between our check and insert, and
// their row is the answer.
func (r *Reconciler) winnerAfterConflict(
	ctx context.Context,
	subscriptionID uint,
	dueDate time.Time,
	cause error,
) (*models.AccountReceivable, bool, error) {

	existing, err := findCycle(r.db.WithContext(ctx), subscriptionID, dueDate, r.loc)
	if err != nil {
		return nil, false, fmt.Errorf("re-read cycle after conflict: %w", err)
	}
	if existing == nil {
		return nil, false, cause
	}
	return existing, false, nil
}

// EnsureCycleTx runs the check-then-create inside an existing transaction.
// The caller must hold a lock on sub.
func EnsureCycleTx(
	tx *gorm.DB,
	sub *models.Subscription,
	dueDate time.Time,
	loc *time.Location,
) (*models.AccountReceivable, bool, error) {

	existing, err := findCycle(tx, sub.ID, dueDate, loc)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	period := domain.Period(dueDate, loc)
	subID := sub.ID
	clientID := sub.ClientID

	rec := &models.AccountReceivable{
		Description:    fmt.Sprintf("Assinatura %s - %s", sub.PlanName, period),
		Category:       domain.CategorySubscription,
		PayerName:      sub.Client.Name,
		Amount:         sub.Amount,
		DueDate:        dueDate.In(loc),
		BillingPeriod:  period,
		Status:         string(domain.StatusPending),
		ClientID:       &clientID,
		SubscriptionID: &subID,
	}

	if err := tx.Create(rec).Error; err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// findCycle matches on billing_period and, for rows written before the
// column existed, on a due date inside the same month.
func findCycle(
	db *gorm.DB,
	subscriptionID uint,
	dueDate time.Time,
	loc *time.Location,
) (*models.AccountReceivable, error) {

	due := dueDate.In(loc)
	start, end := timezone.MonthRange(due.Year(), due.Month(), loc)

	var rec models.AccountReceivable
	err := db.
		Where(
			"subscription_id = ? AND (billing_period = ? OR (due_date >= ? AND due_date < ?))",
			subscriptionID, domain.Period(due, loc), start, end,
		).
		Order("created_at ASC, id ASC").
		First(&rec).Error
	if httperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ======================================================
// RECONCILE MONTH
// ======================================================

type ReconcileResult struct {
	Checked int `json:"checked"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// ReconcileMonth ensures the cycle of every ACTIVE subscription running in
// the given month. One failing subscription does not stop the others.
func (r *Reconciler) ReconcileMonth(
	ctx context.Context,
	year int,
	month time.Month,
) (ReconcileResult, error) {

	var res ReconcileResult

	monthStart, monthEnd := timezone.MonthRange(year, month, r.loc)

	// end_date guards months past the end of a subscription the sweep has
	// not expired yet
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND start_date < ?", string(subscription.StatusActive), monthEnd).
		Where("end_date IS NULL OR end_date >= ?", monthStart).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return res, err
	}

	for _, sub := range subs {
		res.Checked++

		due := domain.DueDate(year, month, sub.BillingDay, r.loc)
		_, created, err := r.EnsureCycle(ctx, sub.ID, due)
		if err != nil {
			res.Failed++
			r.log.Error("reconcile subscription failed",
				"subscription_id", sub.ID,
				"year", year,
				"month", int(month),
				"err", err,
			)
			continue
		}
		if created {
			res.Created++
		}
	}

	r.log.Info("reconcile month finished",
		"year", year,
		"month", int(month),
		"checked", res.Checked,
		"created", res.Created,
		"failed", res.Failed,
	)

	return res, nil
}

// ======================================================
// DEDUPE
// ======================================================

type DedupeResult struct {
	Groups        int `json:"groups"`
	Removed       int `json:"removed"`
	PaymentsMoved int `json:"payments_moved"`
}

type cycleKey struct {
	subscriptionID uint
	period         string
}

// Dedupe cleans duplicates left by earlier manual entry and by races:
// system rows of the same cycle plus manual rows that match the
// subscription's client name, amount and month.
func (r *Reconciler) Dedupe(ctx context.Context) (DedupeResult, error) {
	var res DedupeResult
	db := r.db.WithContext(ctx)

	var subs []models.Subscription
	if err := db.Preload("Client").Order("id ASC").Find(&subs).Error; err != nil {
		return res, err
	}

	var system []models.AccountReceivable
	if err := db.Where("subscription_id IS NOT NULL").Find(&system).Error; err != nil {
		return res, err
	}

	var manual []models.AccountReceivable
	if err := db.Where("subscription_id IS NULL").Find(&manual).Error; err != nil {
		return res, err
	}

	groups := map[cycleKey][]domain.Candidate{}

	for _, rec := range system {
		period := rec.BillingPeriod
		if period == "" {
			period = domain.Period(rec.DueDate, r.loc)
		}
		key := cycleKey{*rec.SubscriptionID, period}
		groups[key] = append(groups[key], toCandidate(rec, true))
	}

	// a manual row is attributed to the first subscription it matches
	for _, rec := range manual {
		for _, sub := range subs {
			period := domain.Period(rec.DueDate, r.loc)
			if domain.Matches(sub.Client.Name, sub.Amount, period, rec.PayerName, rec.Amount, rec.DueDate, r.loc) {
				key := cycleKey{sub.ID, period}
				groups[key] = append(groups[key], toCandidate(rec, false))
				break
			}
		}
	}

	keys := make([]cycleKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].subscriptionID != keys[j].subscriptionID {
			return keys[i].subscriptionID < keys[j].subscriptionID
		}
		return keys[i].period < keys[j].period
	})

	for _, key := range keys {
		plan, ok := domain.Resolve(groups[key])
		if !ok {
			continue
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if plan.TransferPayment {
				if err := tx.Model(&models.AccountReceivable{}).
					Where("id = ?", plan.Keep.ID).
					Updates(map[string]any{
						"status":       string(domain.StatusPaid),
						"payment_date": plan.PaymentDate,
					}).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&models.PaymentLink{}).
				Where("receivable_id IN ?", plan.Remove).
				Update("receivable_id", plan.Keep.ID).Error; err != nil {
				return err
			}
			return tx.Where("id IN ?", plan.Remove).Delete(&models.AccountReceivable{}).Error
		}); err != nil {
			return res, fmt.Errorf("dedupe subscription %d period %s: %w", key.subscriptionID, key.period, err)
		}

		res.Groups++
		res.Removed += len(plan.Remove)
		if plan.TransferPayment {
			res.PaymentsMoved++
		}

		r.log.Info("receivable duplicates removed",
			"subscription_id", key.subscriptionID,
			"period", key.period,
			"kept", plan.Keep.ID,
			"removed", plan.Remove,
		)
	}

	if res.Groups > 0 {
		r.audit.Dispatch(audit.Event{
			ActorKind: audit.ActorSystem,
			Action:    "receivables_deduplicated",
			Entity:    "account_receivable",
			Metadata:  res,
		})
	}

	return res, nil
}

func toCandidate(rec models.AccountReceivable, system bool) domain.Candidate {
	return domain.Candidate{
		ID:          rec.ID,
		System:      system,
		Status:      domain.Status(rec.Status),
		PaymentDate: rec.PaymentDate,
		CreatedAt:   rec.CreatedAt,
	}
}
