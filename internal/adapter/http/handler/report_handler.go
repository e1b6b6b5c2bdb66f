package handler

import (
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles program reporting endpoints.
type ReportHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc}
}

// Summary handles GET /api/v1/reports/summary?period=day|week|month|all.
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportingSvc.Summary(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
