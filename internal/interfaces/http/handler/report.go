package handler

import (
	reportapp "github.com/bizline/backoffice/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the business line reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesSummary returns sales totals and the daily series of a period.
// GET /reports/sales-summary?from&to
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter reportapp.PeriodFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Receivables returns credit exposure and unpaid invoices per customer.
// GET /reports/receivables
func (h *ReportHandler) Receivables(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}

	receivables, err := h.reportService.Receivables(c.Request.Context(), lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivables)
}

// StockValuation returns the value of stock on hand.
// GET /reports/stock-valuation
func (h *ReportHandler) StockValuation(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}

	valuation, err := h.reportService.StockValuation(c.Request.Context(), lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, valuation)
}

// PaymentsSummary returns payment counts and amounts per method and status.
// GET /reports/payments-summary?from&to
func (h *ReportHandler) PaymentsSummary(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter reportapp.PeriodFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	summary, err := h.reportService.PaymentsSummary(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Dashboard returns the four reports at once.
// GET /reports/dashboard?from&to
func (h *ReportHandler) Dashboard(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter reportapp.PeriodFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	dashboard, err := h.reportService.Dashboard(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
