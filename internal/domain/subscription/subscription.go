package subscription

import (
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusCanceled Status = "CANCELED"
	StatusExpired  Status = "EXPIRED"
)

// Grants reports whether sub can cover services of an appointment with
// barberID starting at at. EndDate is the last covered day in loc.
// Exclusive plans only count for their owner.
func Grants(sub *models.Subscription, barberID uint, at time.Time, loc *time.Location) bool {
	if sub == nil || Status(sub.Status) != StatusActive {
		return false
	}
	if at.Before(sub.StartDate) {
		return false
	}
	if sub.EndDate != nil && !at.Before(timezone.StartOfDay(*sub.EndDate, loc).AddDate(0, 0, 1)) {
		return false
	}
	if sub.IsExclusive && (sub.OwnerID == nil || *sub.OwnerID != barberID) {
		return false
	}
	return true
}

func CanCancel(current Status) error {
	if current != StatusActive {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
