package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/payment"
)

type PaymentHandler struct {
	db      *gorm.DB
	create  *payment.CreateLink
	webhook *payment.HandleNotification
	log     *slog.Logger
}

func NewPaymentHandler(
	db *gorm.DB,
	create *payment.CreateLink,
	webhook *payment.HandleNotification,
	log *slog.Logger,
) *PaymentHandler {
	return &PaymentHandler{db: db, create: create, webhook: webhook, log: log}
}

type CreateLinkRequest struct {
	Kind       string `json:"kind" binding:"required"`
	PayerEmail string `json:"payer_email"`
}

// notification is the MercadoPago webhook body. Only data.id is used.
type notification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ======================================================
// LINKS
// ======================================================

func (h *PaymentHandler) CreateLink(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	link, err := h.create.Execute(c.Request.Context(), payment.CreateLinkInput{
		ReceivableID: id,
		Kind:         strings.ToLower(strings.TrimSpace(req.Kind)),
		PayerEmail:   strings.TrimSpace(req.PayerEmail),
		ActorID:      middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, link)
}

func (h *PaymentHandler) ListLinks(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	links, err := payment.ListLinks(c.Request.Context(), h.db, id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, links)
}

// ======================================================
// WEBHOOK
// ======================================================

// Webhook accepts both the JSON body and the query string forms
// (?type=payment&data.id= and the older ?topic=payment&id=). Anything that
// is not a payment is acknowledged and ignored.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var body notification
	_ = c.ShouldBindJSON(&body)

	kind := firstNonEmpty(body.Type, c.Query("type"), c.Query("topic"))
	paymentID := firstNonEmpty(body.Data.ID, c.Query("data.id"), c.Query("id"))

	if kind != "payment" || paymentID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	res, err := h.webhook.Execute(c.Request.Context(), paymentID)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.log.Info("payment notification processed",
		"payment_id", res.PaymentID,
		"status", res.Status,
		"receivable_id", res.ReceivableID,
		"settled", res.Settled,
	)

	httpresp.OK(c, res)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
