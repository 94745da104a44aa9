package appointment

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

// OverrideTotal lets staff replace the billed total of a completed
// appointment. Line items and commissions are not recomputed.
type OverrideTotal struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewOverrideTotal(repo domain.Repository, audit *audit.Dispatcher, log *slog.Logger) *OverrideTotal {
	return &OverrideTotal{repo: repo, audit: audit, log: log}
}

func (uc *OverrideTotal) Execute(
	ctx context.Context,
	appointmentID uint,
	total decimal.Decimal,
	actorID *uint,
) (*models.Appointment, error) {

	if total.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := domain.CanOverrideTotal(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	previous := ap.TotalAmount
	ap.TotalAmount = total.Round(2)
	ap.TotalOverridden = true

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.log.Warn("appointment total overridden",
		"appointment_id", ap.ID,
		"previous", previous.StringFixed(2),
		"total", ap.TotalAmount.StringFixed(2),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_total_overridden",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"previous": previous.StringFixed(2),
			"total":    ap.TotalAmount.StringFixed(2),
		},
	})

	return ap, nil
}
