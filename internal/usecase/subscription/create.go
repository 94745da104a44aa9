package subscription

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/domain/entitlement"
	financeDomain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/subscription"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
)

// ======================================================
// INPUT
// ======================================================

type CreateSubscriptionInput struct {
	ClientID uint
	PlanID   *uint

	// Used when no plan is given, or to override the plan's values.
	PlanName         string
	Amount           *decimal.Decimal
	ServiceIDs       []uint
	ServicesIncluded *string
	UsageLimit       *int
	IsExclusive      *bool
	OwnerID          *uint

	BillingDay int
	StartDate  *time.Time
	EndDate    *time.Time

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateSubscription struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewCreateSubscription(
	db *gorm.DB,
	loc *time.Location,
	audit *audit.Dispatcher,
) *CreateSubscription {
	return &CreateSubscription{db: db, loc: loc, audit: audit}
}

// Execute contracts the subscription, snapshots its entitlement and issues
// the first receivable in one transaction.
func (uc *CreateSubscription) Execute(
	ctx context.Context,
	in CreateSubscriptionInput,
) (*models.Subscription, error) {

	if !financeDomain.ValidBillingDay(in.BillingDay) {
		return nil, httperr.ErrBusiness("invalid_billing_day")
	}

	start := timezone.StartOfDay(time.Now(), uc.loc)
	if in.StartDate != nil {
		start = timezone.StartOfDay(*in.StartDate, uc.loc)
	}

	var sub models.Subscription

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// --------------------------------------------------
		// 1️⃣ Cliente (lock serializa contratos concorrentes)
		// --------------------------------------------------
		var client models.Client
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&client, in.ClientID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("client_not_found")
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Subscription{}).
			Where("client_id = ? AND status = ?", client.ID, string(domain.StatusActive)).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return httperr.ErrBusiness("client_already_subscribed")
		}

		// --------------------------------------------------
		// 2️⃣ Plano + overrides
		// --------------------------------------------------
		sub = models.Subscription{
			ClientID:   client.ID,
			Client:     client,
			BillingDay: in.BillingDay,
			Status:     string(domain.StatusActive),
			StartDate:  start,
			EndDate:    in.EndDate,
		}

		var planServiceIDs []uint
		if in.PlanID != nil {
			var plan models.SubscriptionPlan
			if err := tx.Preload("Services").First(&plan, *in.PlanID).Error; err != nil {
				if httperr.IsNotFound(err) {
					return httperr.ErrBusiness("plan_not_found")
				}
				return err
			}
			if !plan.IsActive {
				return httperr.ErrBusiness("plan_inactive")
			}

			sub.PlanID = &plan.ID
			sub.PlanName = plan.Name
			sub.Amount = plan.Price
			sub.UsageLimit = plan.UsageLimit
			sub.IsExclusive = plan.IsExclusive
			sub.OwnerID = plan.OwnerID
			sub.ServicesIncluded = plan.ServicesIncluded

			// end_date is the last covered day
			if in.EndDate == nil && plan.DurationDays > 0 {
				end := start.AddDate(0, 0, plan.DurationDays-1)
				sub.EndDate = &end
			}

			for _, ps := range plan.Services {
				planServiceIDs = append(planServiceIDs, ps.ServiceID)
			}
		}

		applyOverrides(&sub, in)

		if sub.PlanName == "" {
			sub.PlanName = "Assinatura"
		}
		if (in.PlanID == nil && in.Amount == nil) || sub.Amount.IsNegative() {
			return httperr.ErrBusiness("invalid_amount")
		}
		if sub.IsExclusive && sub.OwnerID == nil {
			return httperr.ErrBusiness("owner_required")
		}

		serviceIDs, err := resolveServiceIDs(tx, in, planServiceIDs, sub.ServicesIncluded)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Assinatura + snapshot de serviços
		// --------------------------------------------------
		if err := tx.Omit("Client", "Services").Create(&sub).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness("client_already_subscribed")
			}
			return err
		}

		for _, id := range serviceIDs {
			row := models.SubscriptionService{SubscriptionID: sub.ID, ServiceID: id}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			sub.Services = append(sub.Services, row)
		}

		if !client.IsSubscriber {
			if err := tx.Model(&client).Update("is_subscriber", true).Error; err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 4️⃣ Primeira cobrança
		// --------------------------------------------------
		due := financeDomain.DueDate(start.Year(), start.Month(), sub.BillingDay, uc.loc)
		if due.Before(start) {
			due = start
		}
		_, _, err = finance.EnsureCycleTx(tx, &sub, due, uc.loc)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "subscription_created",
		Entity:   "subscription",
		EntityID: &sub.ID,
		Metadata: map[string]any{
			"client_id": sub.ClientID,
			"plan_id":   sub.PlanID,
			"amount":    sub.Amount.StringFixed(2),
		},
	})

	return &sub, nil
}

func applyOverrides(sub *models.Subscription, in CreateSubscriptionInput) {
	if in.PlanName != "" {
		sub.PlanName = in.PlanName
	}
	if in.Amount != nil {
		sub.Amount = *in.Amount
	}
	if in.UsageLimit != nil {
		sub.UsageLimit = in.UsageLimit
	}
	if in.IsExclusive != nil {
		sub.IsExclusive = *in.IsExclusive
	}
	if in.OwnerID != nil {
		sub.OwnerID = in.OwnerID
	}
	if in.ServicesIncluded != nil {
		sub.ServicesIncluded = in.ServicesIncluded
	}
}

// resolveServiceIDs: explicit ids win, then the plan's rows, then the
// legacy text matched against the active catalog.
func resolveServiceIDs(
	tx *gorm.DB,
	in CreateSubscriptionInput,
	planServiceIDs []uint,
	legacy *string,
) ([]uint, error) {

	if len(in.ServiceIDs) > 0 {
		var count int64
		ids := entitlement.NewSet(in.ServiceIDs...).IDs()
		if err := tx.Model(&models.Service{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return nil, err
		}
		if int(count) != len(ids) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return ids, nil
	}

	if len(planServiceIDs) > 0 && in.ServicesIncluded == nil {
		return planServiceIDs, nil
	}

	if legacy == nil {
		return nil, nil
	}

	catalog, err := Catalog(tx)
	if err != nil {
		return nil, err
	}
	return entitlement.ResolveLegacy(*legacy, catalog).IDs(), nil
}

// Catalog lists every service as legacy resolver input.
func Catalog(tx *gorm.DB) ([]entitlement.CatalogEntry, error) {
	var services []models.Service
	if err := tx.Select("id", "name").Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	out := make([]entitlement.CatalogEntry, 0, len(services))
	for _, s := range services {
		out = append(out, entitlement.CatalogEntry{ID: s.ID, Name: s.Name})
	}
	return out, nil
}
