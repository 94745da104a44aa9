package commission

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/commission"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

// Generate creates one PENDING commission per billed line of a completed
// appointment. Covered lines (billed 0) earn nothing. It must run in the
// transaction that completes the appointment; the unique index on
// appointment_service_id rejects a second run.
func Generate(tx *gorm.DB, ap *models.Appointment) ([]models.Commission, error) {
	var barber models.Barber
	if err := tx.Select("id", "commission_rate").First(&barber, ap.BarberID).Error; err != nil {
		return nil, err
	}

	var rows []models.BarberServiceCommission
	if err := tx.Where("barber_id = ?", ap.BarberID).Find(&rows).Error; err != nil {
		return nil, err
	}
	overrides := make(domain.Overrides, len(rows))
	for _, r := range rows {
		overrides[r.ServiceID] = r.Percentage
	}

	var out []models.Commission
	for i := range ap.Services {
		line := &ap.Services[i]
		if !line.BilledPrice.GreaterThan(decimal.Zero) {
			continue
		}

		pct := domain.Percentage(overrides, line.ServiceID, barber.CommissionRate)
		apID := ap.ID
		lineID := line.ID

		c := models.Commission{
			AppointmentID:        &apID,
			AppointmentServiceID: &lineID,
			BarberID:             ap.BarberID,
			BaseAmount:           line.BilledPrice,
			Percentage:           pct,
			Amount:               domain.Amount(line.BilledPrice, pct),
			Status:               string(domain.StatusPending),
		}
		if err := tx.Omit("Barber").Create(&c).Error; err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}
