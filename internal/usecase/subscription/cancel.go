package subscription

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/subscription"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type CancelSubscription struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewCancelSubscription(db *gorm.DB, loc *time.Location, audit *audit.Dispatcher) *CancelSubscription {
	return &CancelSubscription{db: db, loc: loc, audit: audit}
}

// Execute cancels the subscription. Receivables already issued stay open.
func (uc *CancelSubscription) Execute(
	ctx context.Context,
	subscriptionID uint,
	actorID *uint,
) (*models.Subscription, error) {

	var sub models.Subscription

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, subscriptionID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("subscription_not_found")
			}
			return err
		}

		if err := domain.CanCancel(domain.Status(sub.Status)); err != nil {
			return err
		}

		now := time.Now().In(uc.loc)
		sub.Status = string(domain.StatusCanceled)
		sub.EndDate = &now

		if err := tx.Model(&sub).Updates(map[string]any{
			"status":   sub.Status,
			"end_date": sub.EndDate,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", sub.ClientID).
			Update("is_subscriber", false).Error
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "subscription_canceled",
		Entity:   "subscription",
		EntityID: &sub.ID,
	})

	return &sub, nil
}
