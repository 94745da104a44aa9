package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/appointment"
)

// Notifier delivers a text message to a client phone.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// ======================================================
// CONFIRM
// ======================================================

type ConfirmBooking struct {
	db     *gorm.DB
	loc    *time.Location
	create *appointment.CreateAppointment
	notify Notifier
	audit  *audit.Dispatcher
	log    *slog.Logger
}

func NewConfirmBooking(
	db *gorm.DB,
	loc *time.Location,
	create *appointment.CreateAppointment,
	notify Notifier,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *ConfirmBooking {
	return &ConfirmBooking{
		db:     db,
		loc:    loc,
		create: create,
		notify: notify,
		audit:  audit,
		log:    log,
	}
}

// Execute turns a pending request into a scheduled appointment. The row is
// claimed first so two staff members cannot confirm it twice; a failed
// appointment creation releases the claim.
func (uc *ConfirmBooking) Execute(ctx context.Context, bookingID uint, actorID *uint) (*models.OnlineBooking, error) {
	b, err := uc.claim(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	start := b.StartTime.In(uc.loc)
	ap, err := uc.create.Execute(ctx, appointment.CreateAppointmentInput{
		BarberID:    b.BarberID,
		ClientName:  b.ClientName,
		ClientPhone: b.ClientPhone,
		ClientEmail: b.ClientEmail,
		ServiceIDs:  []uint{b.ServiceID},
		Date:        start.Format("2006-01-02"),
		Time:        start.Format("15:04"),
		Notes:       b.Notes,
		ActorID:     actorID,
	})
	if err != nil {
		if rerr := uc.db.WithContext(ctx).Model(&models.OnlineBooking{}).
			Where("id = ?", b.ID).
			Update("status", StatusPending).Error; rerr != nil {
			uc.log.Error("failed to release booking", "booking_id", b.ID, "err", rerr)
		}
		return nil, err
	}

	b.Status = StatusConfirmed
	b.AppointmentID = &ap.ID
	if err := uc.db.WithContext(ctx).Model(&models.OnlineBooking{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{"status": b.Status, "appointment_id": ap.ID}).Error; err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "booking_confirmed",
		Entity:   "online_booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"appointment_id": ap.ID},
	})

	body := fmt.Sprintf(
		"Olá %s! Seu horário em %s às %s está confirmado.",
		b.ClientName, start.Format("02/01"), start.Format("15:04"),
	)
	uc.sendAsync(b.ClientPhone, body, b.ID)

	return b, nil
}

func (uc *ConfirmBooking) claim(ctx context.Context, id uint) (*models.OnlineBooking, error) {
	var b models.OnlineBooking
	if err := uc.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	res := uc.db.WithContext(ctx).Model(&models.OnlineBooking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", statusConfirming)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("booking_not_pending")
	}
	return &b, nil
}

// sendAsync never blocks the confirmation; delivery failures are logged.
func (uc *ConfirmBooking) sendAsync(phone, body string, bookingID uint) {
	if uc.notify == nil {
		return
	}
	go func() {
		if err := uc.notify.Send(context.Background(), phone, body); err != nil {
			uc.log.Warn("booking confirmation not delivered", "booking_id", bookingID, "err", err)
		}
	}()
}

// ======================================================
// REJECT
// ======================================================

type RejectBooking struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewRejectBooking(db *gorm.DB, audit *audit.Dispatcher) *RejectBooking {
	return &RejectBooking{db: db, audit: audit}
}

func (uc *RejectBooking) Execute(ctx context.Context, bookingID uint, reason string, actorID *uint) (*models.OnlineBooking, error) {
	var b models.OnlineBooking
	if err := uc.db.WithContext(ctx).First(&b, bookingID).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	res := uc.db.WithContext(ctx).Model(&models.OnlineBooking{}).
		Where("id = ? AND status = ?", b.ID, StatusPending).
		Updates(map[string]any{"status": StatusRejected, "reject_reason": reason})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("booking_not_pending")
	}

	b.Status = StatusRejected
	b.RejectReason = reason

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "booking_rejected",
		Entity:   "online_booking",
		EntityID: &b.ID,
	})

	return &b, nil
}

// ======================================================
// LIST
// ======================================================

// ListBookings returns requests by status, oldest first.
func ListBookings(ctx context.Context, db *gorm.DB, status string) ([]models.OnlineBooking, error) {
	if status == "" {
		status = StatusPending
	}
	var out []models.OnlineBooking
	err := db.WithContext(ctx).
		Preload("Service").
		Preload("Barber").
		Where("status = ?", status).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}
