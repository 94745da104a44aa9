package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/commission"
)

type CommissionHandler struct {
	db  *gorm.DB
	loc *time.Location
	pay *commission.PayCommission
	log *slog.Logger
}

func NewCommissionHandler(db *gorm.DB, loc *time.Location, pay *commission.PayCommission, log *slog.Logger) *CommissionHandler {
	return &CommissionHandler{db: db, loc: loc, pay: pay, log: log}
}

// List filters by barber_id, status and a created_at range [from, to].
// On app routes only the caller's commissions are returned.
func (h *CommissionHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Barber")

	barberID := optionalUintQuery(c, "barber_id")
	if own := scopedBarber(c); own != nil {
		barberID = own
	}
	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}

	from, err := parseOptionalDate(h.loc, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}
	to, err := parseOptionalDate(h.loc, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var rows []models.Commission
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	if rows == nil {
		rows = []models.Commission{}
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}

	httpresp.OK(c, gin.H{
		"data":   rows,
		"total":  len(rows),
		"amount": total.StringFixed(2),
	})
}

// Pay is admin only (route guard).
func (h *CommissionHandler) Pay(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorID(c)
	if actor == nil {
		httperr.Unauthorized(c, "unauthorized", "Não autenticado.")
		return
	}

	row, err := h.pay.Execute(c.Request.Context(), id, *actor)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, row)
}
