package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db      *gorm.DB
	loc     *time.Location
	avail   *appointment.GetAvailability
	request *booking.RequestBooking
	log     *slog.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	loc *time.Location,
	avail *appointment.GetAvailability,
	request *booking.RequestBooking,
	log *slog.Logger,
) *PublicHandler {
	return &PublicHandler{db: db, loc: loc, avail: avail, request: request, log: log}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	BarberID    uint   `json:"barber_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

type publicBarber struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

////////////////////////////////////////////////////////
// SHOP
////////////////////////////////////////////////////////

func (h *PublicHandler) Shop(c *gin.Context) {
	shop, err := loadShop(h.db.WithContext(c.Request.Context()))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                shop.Name,
		"phone":               shop.Phone,
		"address":             shop.Address,
		"min_advance_minutes": shop.MinAdvanceMinutes,
	})
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)

	if category := strings.TrimSpace(strings.ToLower(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	out := make([]publicBarber, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, publicBarber{ID: b.ID, Name: b.Name})
	}

	c.JSON(http.StatusOK, gin.H{"barbers": out})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	serviceID := optionalUintQuery(c, "service_id")
	barberID := optionalUintQuery(c, "barber_id")

	if dateStr == "" || serviceID == nil || barberID == nil {
		httperr.BadRequest(c, "missing_params", "Data, serviço e barbeiro obrigatórios.")
		return
	}

	date, err := parseDate(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.avail.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:  *barberID,
		ServiceID: *serviceID,
		Date:      date,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING REQUEST
////////////////////////////////////////////////////////

func (h *PublicHandler) RequestBooking(c *gin.Context) {
	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	b, err := h.request.Execute(c.Request.Context(), booking.RequestInput{
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientPhone: req.ClientPhone,
		ClientEmail: strings.TrimSpace(req.ClientEmail),
		ServiceID:   req.ServiceID,
		BarberID:    req.BarberID,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         b.ID,
		"status":     b.Status,
		"start_time": b.StartTime,
	})
}
