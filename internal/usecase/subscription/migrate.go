package subscription

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/domain/entitlement"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type MigrationResult struct {
	Plans         int `json:"plans"`
	Subscriptions int `json:"subscriptions"`
	Rows          int `json:"rows"`
	Unmatched     int `json:"unmatched"`
}

// MigrateEntitlements converts the legacy services_included text of plans
// and subscriptions into service rows. Records that already have rows are
// left alone, so the command can be re-run.
type MigrateEntitlements struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewMigrateEntitlements(db *gorm.DB, log *slog.Logger) *MigrateEntitlements {
	return &MigrateEntitlements{db: db, log: log}
}

func (uc *MigrateEntitlements) Execute(ctx context.Context) (MigrationResult, error) {
	var res MigrationResult

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog, err := Catalog(tx)
		if err != nil {
			return err
		}

		var plans []models.SubscriptionPlan
		if err := tx.Preload("Services").
			Where("services_included IS NOT NULL AND services_included <> ''").
			Find(&plans).Error; err != nil {
			return err
		}

		for _, plan := range plans {
			if len(plan.Services) > 0 {
				continue
			}
			set := entitlement.ResolveLegacy(*plan.ServicesIncluded, catalog)
			if len(set) == 0 {
				res.Unmatched++
				uc.log.Warn("plan entitlement matched no service",
					"plan_id", plan.ID,
					"services_included", *plan.ServicesIncluded,
				)
				continue
			}
			for _, id := range set.IDs() {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.PlanService{PlanID: plan.ID, ServiceID: id}).Error; err != nil {
					return err
				}
				res.Rows++
			}
			res.Plans++
		}

		var subs []models.Subscription
		if err := tx.Preload("Services").
			Where("services_included IS NOT NULL AND services_included <> ''").
			Find(&subs).Error; err != nil {
			return err
		}

		for _, sub := range subs {
			if len(sub.Services) > 0 {
				continue
			}
			set := entitlement.ResolveLegacy(*sub.ServicesIncluded, catalog)
			if len(set) == 0 {
				res.Unmatched++
				uc.log.Warn("subscription entitlement matched no service",
					"subscription_id", sub.ID,
					"services_included", *sub.ServicesIncluded,
				)
				continue
			}
			for _, id := range set.IDs() {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.SubscriptionService{SubscriptionID: sub.ID, ServiceID: id}).Error; err != nil {
					return err
				}
				res.Rows++
			}
			res.Subscriptions++
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	uc.log.Info("entitlement migration finished",
		"plans", res.Plans,
		"subscriptions", res.Subscriptions,
		"rows", res.Rows,
		"unmatched", res.Unmatched,
	)
	return res, nil
}
