package appointment

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/domain/billing"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/cashregister"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/commission"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/subscription"
)

type CompleteAppointmentInput struct {
	AppointmentID uint

	// Set for barber app calls; the appointment must belong to them.
	BarberID *uint

	PaymentMethod string

	ActorID   *uint
	ActorKind string
}

type CompleteResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Commissions []models.Commission `json:"commissions"`
	CashEntry   bool                `json:"cash_entry"`
}

// CompleteAppointment settles an appointment: bills each line against the
// client's subscription, stores the total and creates commissions, all in
// one transaction.
type CompleteAppointment struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewCompleteAppointment(
	db *gorm.DB,
	loc *time.Location,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		db:    db,
		loc:   loc,
		audit: audit,
		log:   log,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	in CompleteAppointmentInput,
) (*CompleteResult, error) {

	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	res := &CompleteResult{}

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// --------------------------------------------------
		// 1️⃣ Agendamento (lock)
		// --------------------------------------------------
		var ap models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Preload("Products").
			First(&ap, in.AppointmentID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("appointment_not_found")
			}
			return err
		}

		if in.BarberID != nil && ap.BarberID != *in.BarberID {
			return httperr.ErrBusiness("appointment_not_found")
		}

		now := time.Now().In(uc.loc)
		if err := domain.Complete(&ap, now); err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Entitlement + faturamento
		// --------------------------------------------------
		ent, err := subscription.ResolveEntitlement(tx, ap.ClientID, ap.BarberID, ap.StartTime, ap.Services, uc.loc)
		if err != nil {
			return err
		}

		bill := billing.Bill(toLines(ap.Services), toProductLines(ap.Products), ent)

		for i, bl := range bill.Lines {
			line := &ap.Services[i]
			line.BilledPrice = bl.Billed
			line.Covered = bl.Covered
			line.SubscriptionID = nil
			if bl.Covered {
				subID := ent.SubscriptionID
				line.SubscriptionID = &subID
			}

			if err := tx.Model(line).Updates(map[string]any{
				"billed_price":    line.BilledPrice,
				"covered":         line.Covered,
				"subscription_id": line.SubscriptionID,
			}).Error; err != nil {
				return err
			}
		}

		ap.TotalAmount = bill.Total
		ap.TotalOverridden = false
		ap.PaymentMethod = in.PaymentMethod
		ap.WorkedHours = billing.Hours(bill.WorkedMinutes)
		ap.WorkedHoursSubscription = billing.Hours(bill.WorkedMinutesSubscription)
		ap.IsSubscriptionAppointment = bill.AnyCovered()
		ap.SubscriptionID = nil
		if bill.AnyCovered() {
			subID := ent.SubscriptionID
			ap.SubscriptionID = &subID
		}

		if err := tx.Omit(clause.Associations).Save(&ap).Error; err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Comissões
		// --------------------------------------------------
		commissions, err := commission.Generate(tx, &ap)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 4️⃣ Caixa
		// --------------------------------------------------
		if in.PaymentMethod == domain.PaymentCash {
			res.CashEntry, err = cashregister.RecordAppointmentEntry(tx, &ap, in.ActorID)
			if err != nil {
				return err
			}
		}

		res.Appointment = &ap
		res.Commissions = commissions
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.PaymentMethod == domain.PaymentCash && !res.CashEntry && res.Appointment.TotalAmount.IsPositive() {
		uc.log.Warn("cash payment without open register",
			"appointment_id", res.Appointment.ID,
			"total", res.Appointment.TotalAmount.StringFixed(2),
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:    in.ActorID,
		ActorKind: in.ActorKind,
		Action:    "appointment_completed",
		Entity:    "appointment",
		EntityID:  &res.Appointment.ID,
		Metadata: map[string]any{
			"total":        res.Appointment.TotalAmount.StringFixed(2),
			"subscription": res.Appointment.IsSubscriptionAppointment,
			"commissions":  len(res.Commissions),
		},
	})

	return res, nil
}

func toLines(services []models.AppointmentService) []billing.Line {
	out := make([]billing.Line, 0, len(services))
	for _, s := range services {
		out = append(out, billing.Line{
			ServiceID:   s.ServiceID,
			Price:       s.Price,
			DurationMin: s.DurationMin,
		})
	}
	return out
}

func toProductLines(products []models.AppointmentProduct) []billing.ProductLine {
	out := make([]billing.ProductLine, 0, len(products))
	for _, p := range products {
		out = append(out, billing.ProductLine{
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
		})
	}
	return out
}
