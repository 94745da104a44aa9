package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler serves both the staff dashboard and the barber app.
// On app routes the barber comes from the token and every query and
// command is scoped to them.
type AppointmentHandler struct {
	repo     domain.Repository
	loc      *time.Location
	create   *appointment.CreateAppointment
	complete *appointment.CompleteAppointment
	cancel   *appointment.CancelAppointment
	override *appointment.OverrideTotal
	list     *appointment.ListAppointments
	avail    *appointment.GetAvailability
	log      *slog.Logger
}

func NewAppointmentHandler(
	repo domain.Repository,
	loc *time.Location,
	create *appointment.CreateAppointment,
	complete *appointment.CompleteAppointment,
	cancel *appointment.CancelAppointment,
	override *appointment.OverrideTotal,
	list *appointment.ListAppointments,
	avail *appointment.GetAvailability,
	log *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:     repo,
		loc:      loc,
		create:   create,
		complete: complete,
		cancel:   cancel,
		override: override,
		list:     list,
		avail:    avail,
		log:      log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ProductItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type CreateAppointmentRequest struct {
	BarberID uint `json:"barber_id"`

	ClientID    *uint  `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	ServiceIDs []uint               `json:"service_ids" binding:"required,min=1"`
	Products   []ProductItemRequest `json:"products" binding:"dive"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Time  string `json:"time" binding:"required"` // HH:mm
	Notes string `json:"notes"`
}

type CompleteAppointmentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type OverrideTotalRequest struct {
	Total decimal.Decimal `json:"total"`
}

// scopedBarber is the token's barber on app routes, nil for staff.
func scopedBarber(c *gin.Context) *uint {
	if id, ok := middleware.BarberID(c); ok {
		return &id
	}
	return nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	barberID := req.BarberID
	if own := scopedBarber(c); own != nil {
		barberID = *own
	}
	if barberID == 0 {
		httperr.BadRequest(c, "invalid_request", "Barbeiro obrigatório.")
		return
	}

	products := make([]appointment.ProductItem, 0, len(req.Products))
	for _, p := range req.Products {
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		products = append(products, appointment.ProductItem{ProductID: p.ProductID, Quantity: qty})
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		BarberID:    barberID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ServiceIDs:  req.ServiceIDs,
		Products:    products,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		ActorID:     middleware.ActorID(c),
		ActorKind:   middleware.ActorKind(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), id)
	if err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("appointment_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}
	if own := scopedBarber(c); own != nil && ap.BarberID != *own {
		httperr.Respond(c, h.log, httperr.ErrBusiness("appointment_not_found"))
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) listInput(c *gin.Context) appointment.ListInput {
	in := appointment.ListInput{
		BarberID: optionalUintQuery(c, "barber_id"),
		ClientID: optionalUintQuery(c, "client_id"),
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	if own := scopedBarber(c); own != nil {
		in.BarberID = own
	}
	return in
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := parseDate(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	items, err := h.list.ByDate(c.Request.Context(), h.listInput(c), date)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	items, err := h.list.ByMonth(c.Request.Context(), h.listInput(c), year, month)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	serviceID := optionalUintQuery(c, "service_id")
	barberID := optionalUintQuery(c, "barber_id")
	if own := scopedBarber(c); own != nil {
		barberID = own
	}

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

// ======================================================
// COMPLETE / CANCEL / OVERRIDE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	// body is optional
	var req CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.Validation(c, err)
		return
	}

	res, err := h.complete.Execute(c.Request.Context(), appointment.CompleteAppointmentInput{
		AppointmentID: id,
		BarberID:      scopedBarber(c),
		PaymentMethod: strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		ActorID:       middleware.ActorID(c),
		ActorKind:     middleware.ActorKind(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		id,
		scopedBarber(c),
		middleware.ActorID(c),
		middleware.ActorKind(c),
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// OverrideTotal is staff only.
func (h *AppointmentHandler) OverrideTotal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req OverrideTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	ap, err := h.override.Execute(c.Request.Context(), id, req.Total, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}
