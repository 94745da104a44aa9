// Package jobs holds the scheduled maintenance runs of cmd/maintenance.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
)

// runTimeout bounds one scheduled run.
const runTimeout = 4 * time.Minute

type DailyResult struct {
	Sweep     finance.SweepResult     `json:"sweep"`
	Reconcile finance.ReconcileResult `json:"reconcile"`
}

// Daily ages overdue accounts and then makes sure every active
// subscription has its receivable for the current month.
type Daily struct {
	sweeper    *finance.Sweeper
	reconciler *finance.Reconciler
	loc        *time.Location
	log        *slog.Logger
	now        func() time.Time
}

func NewDaily(sweeper *finance.Sweeper, reconciler *finance.Reconciler, loc *time.Location, log *slog.Logger) *Daily {
	return &Daily{sweeper: sweeper, reconciler: reconciler, loc: loc, log: log, now: time.Now}
}

func (d *Daily) Run(ctx context.Context) (DailyResult, error) {
	var res DailyResult

	sweep, err := d.sweeper.Execute(ctx)
	if err != nil {
		return res, fmt.Errorf("sweep: %w", err)
	}
	res.Sweep = sweep

	today := d.now().In(d.loc)
	rec, err := d.reconciler.ReconcileMonth(ctx, today.Year(), today.Month())
	if err != nil {
		return res, fmt.Errorf("reconcile: %w", err)
	}
	res.Reconcile = rec

	return res, nil
}

// Schedule registers Run on spec (standard 5-field cron, evaluated in the
// business timezone). Overlapping runs are skipped.
func (d *Daily) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(d.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		res, err := d.Run(ctx)
		if err != nil {
			d.log.Error("daily maintenance failed", "err", err)
			return
		}
		d.log.Info("daily maintenance finished",
			"payables_overdue", res.Sweep.Payables,
			"receivables_overdue", res.Sweep.Receivables,
			"subscriptions_expired", res.Sweep.Subscriptions,
			"receivables_created", res.Reconcile.Created,
			"reconcile_failed", res.Reconcile.Failed,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("add cron %q: %w", spec, err)
	}

	return c, nil
}
