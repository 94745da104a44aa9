package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
	log *slog.Logger
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location, log *slog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pageQuery(c)
	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if entityID := optionalUintQuery(c, "entity_id"); entityID != nil {
		q = q.Where("entity_id = ?", *entityID)
	}
	if kind := c.Query("actor_kind"); kind != "" {
		q = q.Where("actor_kind = ?", kind)
	}

	if from, err := parseOptionalDate(h.loc, c.Query("from")); err == nil && from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to, err := parseOptionalDate(h.loc, c.Query("to")); err == nil && to != nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
