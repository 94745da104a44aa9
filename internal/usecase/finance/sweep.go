package finance

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	"github.com/BruksfildServices01/barber-admin/internal/domain/subscription"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

type SweepResult struct {
	Payables      int64 `json:"payables"`
	Receivables   int64 `json:"receivables"`
	Subscriptions int64 `json:"subscriptions"`
}

// Sweeper ages PENDING accounts to OVERDUE once their due date is before
// today in the business calendar. The transitions are monotonic, so
// concurrent sweeps converge on the same state without locks.
type Sweeper struct {
	db  *gorm.DB
	loc *time.Location
	log *slog.Logger
	now func() time.Time
}

func NewSweeper(db *gorm.DB, loc *time.Location, log *slog.Logger) *Sweeper {
	return &Sweeper{db: db, loc: loc, log: log, now: time.Now}
}

func (s *Sweeper) Execute(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	today := timezone.StartOfDay(s.now(), s.loc)
	db := s.db.WithContext(ctx)

	q := db.Model(&models.AccountPayable{}).
		Where("status = ? AND due_date < ?", string(domain.StatusPending), today).
		Update("status", string(domain.StatusOverdue))
	if q.Error != nil {
		return res, q.Error
	}
	res.Payables = q.RowsAffected

	q = db.Model(&models.AccountReceivable{}).
		Where("status = ? AND due_date < ?", string(domain.StatusPending), today).
		Update("status", string(domain.StatusOverdue))
	if q.Error != nil {
		return res, q.Error
	}
	res.Receivables = q.RowsAffected

	q = db.Model(&models.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", string(subscription.StatusActive), today).
		Update("status", string(subscription.StatusExpired))
	if q.Error != nil {
		return res, q.Error
	}
	res.Subscriptions = q.RowsAffected

	if res.Payables+res.Receivables+res.Subscriptions > 0 {
		s.log.Info("status sweep",
			"payables", res.Payables,
			"receivables", res.Receivables,
			"subscriptions", res.Subscriptions,
		)
	}

	return res, nil
}
