package handlers

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/cashregister"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/cashregister"
)

type CashRegisterHandler struct {
	db       *gorm.DB
	register *cashregister.Register
	log      *slog.Logger
}

func NewCashRegisterHandler(db *gorm.DB, register *cashregister.Register, log *slog.Logger) *CashRegisterHandler {
	return &CashRegisterHandler{db: db, register: register, log: log}
}

type OpenRegisterRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

type CloseRegisterRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount"`
	Notes        string          `json:"notes"`
}

type MovementRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// staffActor returns the session user; register operations always have one.
func staffActor(c *gin.Context) (uint, bool) {
	actor := middleware.ActorID(c)
	if actor == nil {
		httperr.Unauthorized(c, "unauthorized", "Não autenticado.")
		return 0, false
	}
	return *actor, true
}

func (h *CashRegisterHandler) Open(c *gin.Context) {
	actor, ok := staffActor(c)
	if !ok {
		return
	}

	var req OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	reg, err := h.register.Open(c.Request.Context(), req.InitialAmount, actor)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, reg)
}

func (h *CashRegisterHandler) Current(c *gin.Context) {
	sum, err := h.register.Current(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, sum)
}

func (h *CashRegisterHandler) AddMovement(c *gin.Context) {
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	mv, err := h.register.AddMovement(c.Request.Context(), cashregister.MovementInput{
		Type:        domain.MovementType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ActorID:     middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, mv)
}

func (h *CashRegisterHandler) Close(c *gin.Context) {
	actor, ok := staffActor(c)
	if !ok {
		return
	}

	var req CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	reg, err := h.register.Close(c.Request.Context(), req.ActualAmount, strings.TrimSpace(req.Notes), actor)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, reg)
}

// History lists closed and open registers, newest first.
func (h *CashRegisterHandler) History(c *gin.Context) {
	page, limit := pageQuery(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.CashRegister{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var rows []models.CashRegister
	if err := q.
		Order("opened_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Page(c, rows, page, limit, total)
}

func (h *CashRegisterHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var reg models.CashRegister
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&reg, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("register_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, reg)
}
