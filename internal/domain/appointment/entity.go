package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel also accepts completed appointments; commissions already
// generated for them stay in place.
func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}
