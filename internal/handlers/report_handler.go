package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/report"
)

type ReportHandler struct {
	summary *report.GetSummary
	log     *slog.Logger
}

func NewReportHandler(summary *report.GetSummary, log *slog.Logger) *ReportHandler {
	return &ReportHandler{summary: summary, log: log}
}

// Summary: GET /reports/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) Summary(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_params", "Período obrigatório.")
		return
	}

	sum, err := h.summary.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, sum)
}
