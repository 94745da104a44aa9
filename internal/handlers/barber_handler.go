package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/domain/commission"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/auth"
	"github.com/BruksfildServices01/barber-admin/internal/validators"
)

type BarberHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewBarberHandler(db *gorm.DB, audit *audit.Dispatcher, log *slog.Logger) *BarberHandler {
	return &BarberHandler{db: db, audit: audit, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type BarberRequest struct {
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Password       string           `json:"password"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Active         *bool            `json:"active"`
}

type CommissionOverrideRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
}

// ======================================================
// BARBERS
// ======================================================

func (h *BarberHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if c.Query("all") != "true" {
		q = q.Where("active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	barber := models.Barber{Active: true}
	if err := applyBarberRequest(&barber, req); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&barber).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var barber models.Barber
	if err := db.First(&barber, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.Respond(c, h.log, httperr.ErrBusiness("barber_not_found"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	if err := applyBarberRequest(&barber, req); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := db.Save(&barber).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	httpresp.OK(c, barber)
}

func applyBarberRequest(b *models.Barber, req BarberRequest) error {
	b.Name = strings.TrimSpace(req.Name)
	b.Phone = strings.TrimSpace(req.Phone)

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailValid(email) {
		return httperr.ErrBusiness("invalid_email")
	}
	if email != "" {
		b.Email = &email
	} else {
		b.Email = nil
	}

	if req.CommissionRate != nil {
		if !commission.ValidPercentage(*req.CommissionRate) {
			return httperr.ErrBusiness("invalid_percentage")
		}
		b.CommissionRate = *req.CommissionRate
	}
	if req.Active != nil {
		b.Active = *req.Active
	}

	if req.Password != "" {
		if len(req.Password) < 6 {
			return httperr.ErrBusiness("invalid_password")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return err
		}
		b.PasswordHash = hash
	}
	return nil
}

// ======================================================
// COMMISSION OVERRIDES
// ======================================================

func (h *BarberHandler) ListCommissionOverrides(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var rows []models.BarberServiceCommission
	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ?", id).
		Order("service_id ASC").
		Find(&rows).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

// SetCommissionOverride upserts the percentage of one (barber, service).
func (h *BarberHandler) SetCommissionOverride(c *gin.Context) {
	barberID, ok := idParam(c)
	if !ok {
		return
	}
	serviceID, ok := uintParam(c, "service_id")
	if !ok {
		return
	}

	var req CommissionOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if !commission.ValidPercentage(req.Percentage) {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_percentage"))
		return
	}

	db := h.db.WithContext(c.Request.Context())

	if err := db.First(&models.Barber{}, barberID).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("barber_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}
	if err := db.First(&models.Service{}, serviceID).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("service_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}

	row := models.BarberServiceCommission{
		BarberID:   barberID,
		ServiceID:  serviceID,
		Percentage: req.Percentage,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "barber_id"}, {Name: "service_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage", "updated_at"}),
	}).Create(&row).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "commission_override_set",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{
			"service_id": serviceID,
			"percentage": req.Percentage.StringFixed(2),
		},
	})

	httpresp.OK(c, row)
}

func (h *BarberHandler) DeleteCommissionOverride(c *gin.Context) {
	barberID, ok := idParam(c)
	if !ok {
		return
	}
	serviceID, ok := uintParam(c, "service_id")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ? AND service_id = ?", barberID, serviceID).
		Delete(&models.BarberServiceCommission{}).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
