package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/subscription"
)

type SubscriptionHandler struct {
	db         *gorm.DB
	loc        *time.Location
	createPlan *subscription.CreatePlan
	create     *subscription.CreateSubscription
	cancel     *subscription.CancelSubscription
	audit      *audit.Dispatcher
	log        *slog.Logger
}

func NewSubscriptionHandler(
	db *gorm.DB,
	loc *time.Location,
	createPlan *subscription.CreatePlan,
	create *subscription.CreateSubscription,
	cancel *subscription.CancelSubscription,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		db:         db,
		loc:        loc,
		createPlan: createPlan,
		create:     create,
		cancel:     cancel,
		audit:      audit,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePlanRequest struct {
	Name             string          `json:"name" binding:"required"`
	Price            decimal.Decimal `json:"price"`
	DurationDays     int             `json:"duration_days"`
	ServiceIDs       []uint          `json:"service_ids"`
	ServicesIncluded *string         `json:"services_included"`
	UsageLimit       *int            `json:"usage_limit"`
	IsExclusive      bool            `json:"is_exclusive"`
	OwnerID          *uint           `json:"owner_id"`
}

type CreateSubscriptionRequest struct {
	ClientID uint  `json:"client_id" binding:"required"`
	PlanID   *uint `json:"plan_id"`

	PlanName         string           `json:"plan_name"`
	Amount           *decimal.Decimal `json:"amount"`
	ServiceIDs       []uint           `json:"service_ids"`
	ServicesIncluded *string          `json:"services_included"`
	UsageLimit       *int             `json:"usage_limit"`
	IsExclusive      *bool            `json:"is_exclusive"`
	OwnerID          *uint            `json:"owner_id"`

	BillingDay int    `json:"billing_day" binding:"required"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`
}

// ======================================================
// PLANS
// ======================================================

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Services")
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true)
	}

	var plans []models.SubscriptionPlan
	if err := q.Order("name ASC").Find(&plans).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, plans)
}

func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	plan, err := h.createPlan.Execute(c.Request.Context(), subscription.CreatePlanInput{
		Name:             strings.TrimSpace(req.Name),
		Price:            req.Price,
		DurationDays:     req.DurationDays,
		ServiceIDs:       req.ServiceIDs,
		ServicesIncluded: req.ServicesIncluded,
		UsageLimit:       req.UsageLimit,
		IsExclusive:      req.IsExclusive,
		OwnerID:          req.OwnerID,
		ActorID:          middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, plan)
}

// DeactivatePlan hides the plan from new contracts. Existing subscriptions
// keep their snapshot.
func (h *SubscriptionHandler) DeactivatePlan(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.SubscriptionPlan{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		httperr.Respond(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, h.log, httperr.ErrBusiness("plan_not_found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "plan_deactivated",
		Entity:   "subscription_plan",
		EntityID: &id,
	})

	httpresp.OK(c, gin.H{"id": id, "is_active": false})
}

// ======================================================
// SUBSCRIPTIONS
// ======================================================

func (h *SubscriptionHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Client").Preload("Services")

	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}
	if clientID := optionalUintQuery(c, "client_id"); clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	var subs []models.Subscription
	if err := q.Order("created_at DESC").Find(&subs).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, subs)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var sub models.Subscription
	if err := db.Preload("Client").Preload("Services").First(&sub, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("subscription_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}

	var receivables []models.AccountReceivable
	if err := db.
		Where("subscription_id = ?", id).
		Order("due_date DESC").
		Find(&receivables).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"subscription": sub,
		"receivables":  receivables,
	})
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	start, err := parseOptionalDate(h.loc, req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data de início inválida.")
		return
	}
	end, err := parseOptionalDate(h.loc, req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data de término inválida.")
		return
	}

	sub, err := h.create.Execute(c.Request.Context(), subscription.CreateSubscriptionInput{
		ClientID:         req.ClientID,
		PlanID:           req.PlanID,
		PlanName:         strings.TrimSpace(req.PlanName),
		Amount:           req.Amount,
		ServiceIDs:       req.ServiceIDs,
		ServicesIncluded: req.ServicesIncluded,
		UsageLimit:       req.UsageLimit,
		IsExclusive:      req.IsExclusive,
		OwnerID:          req.OwnerID,
		BillingDay:       req.BillingDay,
		StartDate:        start,
		EndDate:          end,
		ActorID:          middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	sub, err := h.cancel.Execute(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, sub)
}
