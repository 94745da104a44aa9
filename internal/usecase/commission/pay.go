package commission

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/commission"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type PayCommission struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewPayCommission(db *gorm.DB, loc *time.Location, audit *audit.Dispatcher) *PayCommission {
	return &PayCommission{db: db, loc: loc, audit: audit}
}

// Execute marks a commission PAID. Role checks happen at the route; the
// actor is recorded as paid_by.
func (uc *PayCommission) Execute(
	ctx context.Context,
	commissionID uint,
	actorID uint,
) (*models.Commission, error) {

	var c models.Commission

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, commissionID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("commission_not_found")
			}
			return err
		}

		if err := domain.CanPay(domain.Status(c.Status)); err != nil {
			return err
		}

		now := time.Now().In(uc.loc)
		c.Status = string(domain.StatusPaid)
		c.PaidAt = &now
		c.PaidBy = &actorID

		return tx.Model(&c).Updates(map[string]any{
			"status":  c.Status,
			"paid_at": c.PaidAt,
			"paid_by": c.PaidBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "commission_paid",
		Entity:   "commission",
		EntityID: &c.ID,
		Metadata: map[string]any{
			"barber_id": c.BarberID,
			"amount":    c.Amount.StringFixed(2),
		},
	})

	return &c, nil
}
