package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/infra/whatsapp"
)

// InternalHandler serves server-to-server calls behind X-Internal-Secret.
type InternalHandler struct {
	sender whatsapp.Sender
	log    *slog.Logger
}

func NewInternalHandler(sender whatsapp.Sender, log *slog.Logger) *InternalHandler {
	return &InternalHandler{sender: sender, log: log}
}

type SendWhatsAppRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SendWhatsApp blocks until Twilio answers or the send timeout passes.
func (h *InternalHandler) SendWhatsApp(c *gin.Context) {
	var req SendWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	to := whatsapp.NormalizePhone(req.To)

	if err := h.sender.Send(c.Request.Context(), to, req.Message); err != nil {
		if _, ok := httperr.AsBusiness(err); ok {
			httperr.Respond(c, h.log, err)
			return
		}
		h.log.Error("whatsapp send failed", "to", to, "err", err)
		httperr.Respond(c, h.log, httperr.ErrBusiness("notification_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent", "to": to})
}
