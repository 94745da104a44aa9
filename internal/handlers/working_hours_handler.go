package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type WorkingHoursHandler struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewWorkingHoursHandler(db *gorm.DB, log *slog.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, log: log}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// Get and Update serve /barbers/:id/working-hours (staff) and
// /barber/me/working-hours (app).
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if d.Active && !validDay(d) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de trabalho inválido.")
			return
		}
		toCreate = append(toCreate, models.WorkingHours{
			BarberID:   barberID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barberID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WorkingHoursHandler) barberID(c *gin.Context) (uint, bool) {
	if id, ok := middleware.BarberID(c); ok {
		return id, true
	}
	return idParam(c)
}

// validDay checks HH:MM values and ordering; lunch is optional.
func validDay(d WorkingDayConfig) bool {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return false
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}
	ls, err1 := time.Parse("15:04", d.LunchStart)
	le, err2 := time.Parse("15:04", d.LunchEnd)
	if err1 != nil || err2 != nil {
		return false
	}
	return ls.Before(le) && !ls.Before(start) && !le.After(end)
}
