package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	loc   *time.Location
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	loc *time.Location,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		loc:   loc,
		audit: audit,
		log:   log,
	}
}

// Execute cancels the appointment. Commissions of an already completed
// appointment are kept; a warning is logged so staff can reverse them.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	barberID *uint,
	actorID *uint,
	actorKind string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	if barberID != nil && ap.BarberID != *barberID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := time.Now().In(uc.loc)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	n, err := uc.repo.CountCommissions(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		uc.log.Warn("canceled appointment keeps commissions",
			"appointment_id", ap.ID,
			"commissions", n,
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:    actorID,
		ActorKind: actorKind,
		Action:    "appointment_canceled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata:  map[string]any{"commissions_kept": n},
	})

	return ap, nil
}
