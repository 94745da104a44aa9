package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type BarberCommission struct {
	BarberID   uint            `json:"barber_id"`
	BarberName string          `json:"barber_name"`
	Pending    decimal.Decimal `json:"pending"`
	Paid       decimal.Decimal `json:"paid"`
}

type StatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type Summary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Appointments     int64           `json:"appointments"`
	Revenue          decimal.Decimal `json:"revenue"`
	CoveredServices  int64           `json:"covered_services"`
	WorkedHours      decimal.Decimal `json:"worked_hours"`
	WorkedHoursSubsc decimal.Decimal `json:"worked_hours_subscription"`

	Commissions []BarberCommission `json:"commissions"`
	Receivables []StatusTotal      `json:"receivables"`
	Payables    []StatusTotal      `json:"payables"`
}

type GetSummary struct {
	db  *gorm.DB
	loc *time.Location
}

func NewGetSummary(db *gorm.DB, loc *time.Location) *GetSummary {
	return &GetSummary{db: db, loc: loc}
}

// Execute aggregates the half-open range [from, to+1 day). Dates are
// calendar days in the business timezone.
func (uc *GetSummary) Execute(ctx context.Context, from, to string) (*Summary, error) {
	start, err := time.ParseInLocation("2006-01-02", from, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_period")
	}
	last, err := time.ParseInLocation("2006-01-02", to, uc.loc)
	if err != nil || last.Before(start) {
		return nil, httperr.ErrBusiness("invalid_period")
	}
	end := last.AddDate(0, 0, 1)

	db := uc.db.WithContext(ctx)
	s := &Summary{From: start, To: last}

	// --------------------------------------------------
	// Atendimentos concluídos
	// --------------------------------------------------
	var ap struct {
		Count   int64
		Revenue decimal.Decimal
		Hours   decimal.Decimal
		SubHrs  decimal.Decimal
	}
	if err := db.Model(&models.Appointment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue, "+
			"COALESCE(SUM(worked_hours), 0) AS hours, COALESCE(SUM(worked_hours_subscription), 0) AS sub_hrs").
		Where("status = ? AND start_time >= ? AND start_time < ?", "completed", start, end).
		Scan(&ap).Error; err != nil {
		return nil, err
	}
	s.Appointments = ap.Count
	s.Revenue = ap.Revenue.Round(2)
	s.WorkedHours = ap.Hours.Round(2)
	s.WorkedHoursSubsc = ap.SubHrs.Round(2)

	if err := db.Model(&models.AppointmentService{}).
		Joins("JOIN appointments ON appointments.id = appointment_services.appointment_id").
		Where("appointment_services.covered = ?", true).
		Where("appointments.status = ? AND appointments.start_time >= ? AND appointments.start_time < ?", "completed", start, end).
		Count(&s.CoveredServices).Error; err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Comissões por barbeiro
	// --------------------------------------------------
	if err := db.Model(&models.Commission{}).
		Select("commissions.barber_id, barbers.name AS barber_name, "+
			"COALESCE(SUM(CASE WHEN commissions.status = 'PENDING' THEN commissions.amount ELSE 0 END), 0) AS pending, "+
			"COALESCE(SUM(CASE WHEN commissions.status = 'PAID' THEN commissions.amount ELSE 0 END), 0) AS paid").
		Joins("JOIN barbers ON barbers.id = commissions.barber_id").
		Where("commissions.created_at >= ? AND commissions.created_at < ?", start, end).
		Group("commissions.barber_id, barbers.name").
		Order("commissions.barber_id").
		Scan(&s.Commissions).Error; err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Contas
	// --------------------------------------------------
	if s.Receivables, err = totalsByStatus(db.Model(&models.AccountReceivable{}), start, end); err != nil {
		return nil, err
	}
	if s.Payables, err = totalsByStatus(db.Model(&models.AccountPayable{}), start, end); err != nil {
		return nil, err
	}

	return s, nil
}

func totalsByStatus(q *gorm.DB, start, end time.Time) ([]StatusTotal, error) {
	var out []StatusTotal
	err := q.
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("due_date >= ? AND due_date < ?", start, end).
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, err
}
