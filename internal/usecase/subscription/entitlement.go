package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/domain/billing"
	"github.com/BruksfildServices01/barber-admin/internal/domain/entitlement"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/subscription"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

// ResolveEntitlement finds what the client's active subscription grants for
// an appointment with barberID at start. It returns nil when nothing is
// granted. Usage counts covered lines of completed appointments in the
// same calendar month.
func ResolveEntitlement(
	tx *gorm.DB,
	clientID uint,
	barberID uint,
	start time.Time,
	lines []models.AppointmentService,
	loc *time.Location,
) (*billing.Entitlement, error) {

	// Completions for one subscription run one at a time, otherwise two of
	// them could both count the same remaining use.
	var sub models.Subscription
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Services").
		Where("client_id = ? AND status = ?", clientID, string(domain.StatusActive)).
		Order("id ASC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !domain.Grants(&sub, barberID, start, loc) {
		return nil, nil
	}

	ent := &billing.Entitlement{
		SubscriptionID: sub.ID,
		Services:       coverageOf(&sub, lines),
		UsageLimit:     sub.UsageLimit,
	}

	if sub.UsageLimit != nil {
		used, err := usedInMonth(tx, sub.ID, start, loc)
		if err != nil {
			return nil, err
		}
		ent.UsedCount = used
	}

	return ent, nil
}

// coverageOf prefers the normalized snapshot. Subscriptions not yet
// migrated fall back to their legacy text matched against the lines.
func coverageOf(sub *models.Subscription, lines []models.AppointmentService) entitlement.Set {
	if len(sub.Services) > 0 {
		ids := make([]uint, 0, len(sub.Services))
		for _, s := range sub.Services {
			ids = append(ids, s.ServiceID)
		}
		return entitlement.NewSet(ids...)
	}

	if sub.ServicesIncluded == nil {
		return entitlement.NewSet()
	}

	catalog := make([]entitlement.CatalogEntry, 0, len(lines))
	for _, l := range lines {
		catalog = append(catalog, entitlement.CatalogEntry{ID: l.ServiceID, Name: l.ServiceName})
	}
	return entitlement.ResolveLegacy(*sub.ServicesIncluded, catalog)
}

func usedInMonth(tx *gorm.DB, subscriptionID uint, at time.Time, loc *time.Location) (int, error) {
	local := at.In(loc)
	start, end := timezone.MonthRange(local.Year(), local.Month(), loc)

	var count int64
	err := tx.
		Model(&models.AppointmentService{}).
		Joins("JOIN appointments ON appointments.id = appointment_services.appointment_id").
		Where("appointment_services.subscription_id = ? AND appointment_services.covered = ?", subscriptionID, true).
		Where("appointments.status = ? AND appointments.start_time >= ? AND appointments.start_time < ?", "completed", start, end).
		Count(&count).Error
	return int(count), err
}
