package subscription

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type CreatePlanInput struct {
	Name             string
	Price            decimal.Decimal
	DurationDays     int
	ServiceIDs       []uint
	ServicesIncluded *string
	UsageLimit       *int
	IsExclusive      bool
	OwnerID          *uint
	ActorID          *uint
}

type CreatePlan struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCreatePlan(db *gorm.DB, audit *audit.Dispatcher) *CreatePlan {
	return &CreatePlan{db: db, audit: audit}
}

// Execute stores the plan with normalized service rows. Free text posted
// by older clients is resolved against the catalog once, here.
func (uc *CreatePlan) Execute(ctx context.Context, in CreatePlanInput) (*models.SubscriptionPlan, error) {
	if in.Price.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}
	if in.IsExclusive && in.OwnerID == nil {
		return nil, httperr.ErrBusiness("owner_required")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 0 {
		return nil, httperr.ErrBusiness("invalid_usage_limit")
	}
	if in.DurationDays < 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	plan := models.SubscriptionPlan{
		Name:             in.Name,
		Price:            in.Price,
		DurationDays:     in.DurationDays,
		ServicesIncluded: in.ServicesIncluded,
		UsageLimit:       in.UsageLimit,
		IsExclusive:      in.IsExclusive,
		OwnerID:          in.OwnerID,
		IsActive:         true,
	}

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.OwnerID != nil {
			var n int64
			if err := tx.Model(&models.Barber{}).Where("id = ?", *in.OwnerID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return httperr.ErrBusiness("barber_not_found")
			}
		}

		ids, err := resolveServiceIDs(tx, CreateSubscriptionInput{ServiceIDs: in.ServiceIDs}, nil, in.ServicesIncluded)
		if err != nil {
			return err
		}

		if err := tx.Omit("Services").Create(&plan).Error; err != nil {
			return err
		}

		for _, id := range ids {
			row := models.PlanService{PlanID: plan.ID, ServiceID: id}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			plan.Services = append(plan.Services, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "plan_created",
		Entity:   "subscription_plan",
		EntityID: &plan.ID,
	})

	return &plan, nil
}
