package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
)

// ======================================================
// HANDLER
// ======================================================

type FinanceHandler struct {
	db         *gorm.DB
	loc        *time.Location
	sweeper    *finance.Sweeper
	reconciler *finance.Reconciler
	pay        *finance.PayAccounts
	audit      *audit.Dispatcher
	log        *slog.Logger
}

func NewFinanceHandler(
	db *gorm.DB,
	loc *time.Location,
	sweeper *finance.Sweeper,
	reconciler *finance.Reconciler,
	pay *finance.PayAccounts,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *FinanceHandler {
	return &FinanceHandler{
		db:         db,
		loc:        loc,
		sweeper:    sweeper,
		reconciler: reconciler,
		pay:        pay,
		audit:      audit,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReceivableRequest struct {
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	PayerName      string          `json:"payer_name"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"due_date" binding:"required"`
	ClientID       *uint           `json:"client_id"`
	SubscriptionID *uint           `json:"subscription_id"`
}

type CreatePayableRequest struct {
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" binding:"required"`
}

type PayRequest struct {
	PaymentDate string `json:"payment_date"`
}

type ReconcileRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ======================================================
// SWEEP
// ======================================================

// sweep ages PENDING rows before a list. A failure is logged and the list
// still answers.
func (h *FinanceHandler) sweep(c *gin.Context) {
	if _, err := h.sweeper.Execute(c.Request.Context()); err != nil {
		h.log.Error("sweep before list failed", "err", err)
	}
}

func (h *FinanceHandler) filtered(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}

	from, err := parseOptionalDate(h.loc, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return nil, false
	}
	to, err := parseOptionalDate(h.loc, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return nil, false
	}
	if from != nil {
		q = q.Where("due_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("due_date < ?", to.AddDate(0, 0, 1))
	}
	return q, true
}

// ======================================================
// RECEIVABLES
// ======================================================

func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	h.sweep(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.AccountReceivable{})
	if clientID := optionalUintQuery(c, "client_id"); clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	if subID := optionalUintQuery(c, "subscription_id"); subID != nil {
		q = q.Where("subscription_id = ?", *subID)
	}

	q, ok := h.filtered(c, q)
	if !ok {
		return
	}

	var rows []models.AccountReceivable
	if err := q.Order("due_date ASC, id ASC").Find(&rows).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

// CreateReceivable with a subscription_id goes through the reconciler so
// the cycle keeps a single row; without one it is a plain manual entry.
func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	var req CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	due, err := parseDate(h.loc, req.DueDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data de vencimento inválida.")
		return
	}

	ctx := c.Request.Context()

	if req.SubscriptionID != nil {
		rec, created, err := h.reconciler.EnsureCycle(ctx, *req.SubscriptionID, due)
		if err != nil {
			httperr.Respond(c, h.log, err)
			return
		}
		if !created {
			httperr.Respond(c, h.log, httperr.ErrBusiness("duplicate_receivable"))
			return
		}
		httpresp.Created(c, rec)
		return
	}

	if !req.Amount.IsPositive() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		httperr.BadRequest(c, "invalid_request", "Descrição obrigatória.")
		return
	}

	rec := models.AccountReceivable{
		Description:   description,
		Category:      strings.TrimSpace(req.Category),
		PayerName:     strings.TrimSpace(req.PayerName),
		Amount:        req.Amount,
		DueDate:       due,
		BillingPeriod: domain.Period(due, h.loc),
		Status:        string(domain.StatusPending),
		ClientID:      req.ClientID,
	}

	if err := h.db.WithContext(ctx).Create(&rec).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "receivable_created",
		Entity:   "account_receivable",
		EntityID: &rec.ID,
		Metadata: map[string]any{"amount": rec.Amount.StringFixed(2)},
	})

	httpresp.Created(c, rec)
}

func (h *FinanceHandler) PayReceivable(c *gin.Context) {
	in, ok := h.payInput(c)
	if !ok {
		return
	}

	rec, err := h.pay.Receivable(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, rec)
}

// Reconcile ensures the receivable of every active subscription for a
// month.
func (h *FinanceHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	res, err := h.reconciler.ReconcileMonth(c.Request.Context(), req.Year, time.Month(req.Month))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "receivables_reconciled",
		Entity:   "account_receivable",
		Metadata: map[string]any{"year": req.Year, "month": req.Month, "created": res.Created},
	})

	httpresp.OK(c, res)
}

func (h *FinanceHandler) Dedupe(c *gin.Context) {
	res, err := h.reconciler.Dedupe(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "receivables_deduped",
		Entity:   "account_receivable",
		Metadata: res,
	})

	httpresp.OK(c, res)
}

// ======================================================
// PAYABLES
// ======================================================

func (h *FinanceHandler) ListPayables(c *gin.Context) {
	h.sweep(c)

	q, ok := h.filtered(c, h.db.WithContext(c.Request.Context()).Model(&models.AccountPayable{}))
	if !ok {
		return
	}

	var rows []models.AccountPayable
	if err := q.Order("due_date ASC, id ASC").Find(&rows).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	var req CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if !req.Amount.IsPositive() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}

	due, err := parseDate(h.loc, req.DueDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data de vencimento inválida.")
		return
	}

	p := models.AccountPayable{
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Supplier:    strings.TrimSpace(req.Supplier),
		Amount:      req.Amount,
		DueDate:     due,
		Status:      string(domain.StatusPending),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "payable_created",
		Entity:   "account_payable",
		EntityID: &p.ID,
		Metadata: map[string]any{"amount": p.Amount.StringFixed(2)},
	})

	httpresp.Created(c, p)
}

func (h *FinanceHandler) PayPayable(c *gin.Context) {
	in, ok := h.payInput(c)
	if !ok {
		return
	}

	p, err := h.pay.Payable(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, p)
}

// payInput reads :id and an optional payment_date (defaults to today).
func (h *FinanceHandler) payInput(c *gin.Context) (finance.PayInput, bool) {
	id, ok := idParam(c)
	if !ok {
		return finance.PayInput{}, false
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.Validation(c, err)
		return finance.PayInput{}, false
	}

	date, err := parseOptionalDate(h.loc, req.PaymentDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data de pagamento inválida.")
		return finance.PayInput{}, false
	}

	return finance.PayInput{
		ID:          id,
		PaymentDate: date,
		ActorID:     middleware.ActorID(c),
		ActorKind:   middleware.ActorKind(c),
	}, true
}
