package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/validators"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"

	// claimed while the appointment is being created
	statusConfirming = "confirming"
)

// DefaultMinAdvance applies when no barbershop profile exists.
const DefaultMinAdvance = 120 * time.Minute

type RequestInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string
	ServiceID   uint
	BarberID    uint
	Date        string
	Time        string
	Notes       string
}

// RequestBooking stores a booking request from the public page. It is only
// a request: staff confirm it into an appointment later.
type RequestBooking struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewRequestBooking(db *gorm.DB, loc *time.Location, audit *audit.Dispatcher) *RequestBooking {
	return &RequestBooking{db: db, loc: loc, audit: audit, now: time.Now}
}

func (uc *RequestBooking) Execute(ctx context.Context, in RequestInput) (*models.OnlineBooking, error) {
	if in.ClientName == "" {
		return nil, httperr.ErrBusiness("invalid_client")
	}
	phone := validators.NormalizePhone(in.ClientPhone)
	if !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}
	email := validators.NormalizeEmail(in.ClientEmail)
	if !validators.IsEmailValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	db := uc.db.WithContext(ctx)

	if start.Before(uc.now().In(uc.loc).Add(minAdvance(db))) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	var service models.Service
	if err := db.Where("id = ? AND active = ?", in.ServiceID, true).First(&service).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	var barber models.Barber
	if err := db.Where("id = ? AND active = ?", in.BarberID, true).First(&barber).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		return nil, err
	}

	var wh models.WorkingHours
	err = db.Where("barber_id = ? AND weekday = ?", barber.ID, int(start.Weekday())).First(&wh).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	end := start.Add(time.Duration(service.DurationMin) * time.Minute)
	if err != nil || !domain.IsWithinWorkingHours(&wh, start, end) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	b := models.OnlineBooking{
		ClientName:  in.ClientName,
		ClientPhone: phone,
		ClientEmail: email,
		ServiceID:   service.ID,
		BarberID:    barber.ID,
		StartTime:   start,
		Notes:       in.Notes,
		Status:      StatusPending,
	}
	if err := db.Omit("Service", "Barber").Create(&b).Error; err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorKind: audit.ActorSystem,
		Action:    "booking_requested",
		Entity:    "online_booking",
		EntityID:  &b.ID,
	})

	b.Service = service
	b.Barber = barber
	return &b, nil
}

func minAdvance(db *gorm.DB) time.Duration {
	var shop models.Barbershop
	if err := db.Order("id ASC").First(&shop).Error; err != nil || shop.MinAdvanceMinutes <= 0 {
		return DefaultMinAdvance
	}
	return time.Duration(shop.MinAdvanceMinutes) * time.Minute
}
