package handler

import (
	tradeapp "github.com/bizline/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesInvoiceHandler serves sales invoices
type SalesInvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
}

// NewSalesInvoiceHandler creates a new SalesInvoiceHandler
func NewSalesInvoiceHandler(invoiceService *tradeapp.InvoiceService) *SalesInvoiceHandler {
	return &SalesInvoiceHandler{invoiceService: invoiceService}
}

// Create creates a draft invoice.
// POST /sales/invoices
func (h *SalesInvoiceHandler) Create(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	invoice, err := h.invoiceService.Create(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns one invoice.
// GET /sales/invoices/:id
func (h *SalesInvoiceHandler) GetByID(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List lists invoices.
// GET /sales/invoices
func (h *SalesInvoiceHandler) List(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter tradeapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, p, size)
}

// Update edits a draft invoice.
// PUT /sales/invoices/:id
func (h *SalesInvoiceHandler) Update(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), lineID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Issue issues a draft and deducts its stock.
// POST /sales/invoices/:id/issue
func (h *SalesInvoiceHandler) Issue(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Issue(c.Request.Context(), lineID, id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Void voids an issued invoice nothing has been paid on and restores its stock.
// POST /sales/invoices/:id/void
func (h *SalesInvoiceHandler) Void(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.VoidInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Void(c.Request.Context(), lineID, id, req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete removes a draft invoice.
// DELETE /sales/invoices/:id
func (h *SalesInvoiceHandler) Delete(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), lineID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
