package handlers

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/booking"
)

// BookingHandler is the staff side of online booking requests.
type BookingHandler struct {
	db      *gorm.DB
	confirm *booking.ConfirmBooking
	reject  *booking.RejectBooking
	log     *slog.Logger
}

func NewBookingHandler(
	db *gorm.DB,
	confirm *booking.ConfirmBooking,
	reject *booking.RejectBooking,
	log *slog.Logger,
) *BookingHandler {
	return &BookingHandler{db: db, confirm: confirm, reject: reject, log: log}
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) List(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	rows, err := booking.ListBookings(c.Request.Context(), h.db, status)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.confirm.Execute(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RejectBookingRequest
	// reason is optional
	_ = c.ShouldBindJSON(&req)

	b, err := h.reject.Execute(c.Request.Context(), id, strings.TrimSpace(req.Reason), middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}
