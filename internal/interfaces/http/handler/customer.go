package handler

import (
	financeapp "github.com/bizline/backoffice/internal/application/finance"
	partnerapp "github.com/bizline/backoffice/internal/application/partner"
	tradeapp "github.com/bizline/backoffice/internal/application/trade"
	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves customer accounts of the active business line
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	invoiceService  *tradeapp.InvoiceService
	paymentService  *financeapp.PaymentService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *partnerapp.CustomerService,
	invoiceService *tradeapp.InvoiceService,
	paymentService *financeapp.PaymentService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		invoiceService:  invoiceService,
		paymentService:  paymentService,
	}
}

// Create creates a customer.
// POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	customer, err := h.customerService.Create(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID returns one customer.
// GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List lists customers.
// GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, p, size)
}

// Update updates a customer.
// PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), lineID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Credit returns the customer's credit position.
// GET /customers/:id/credit
func (h *CustomerHandler) Credit(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	credit, err := h.customerService.Credit(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}

// Payments lists the payments received from a customer.
// GET /customers/:id/payments
func (h *CustomerHandler) Payments(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	if _, err := h.customerService.GetByID(c.Request.Context(), lineID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	filter.PartyID = id.String()
	filter.Direction = string(finance.DirectionIncoming)

	payments, total, err := h.paymentService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, payments, total, p, size)
}

// UnpaidInvoices lists the customer's issued invoices with an outstanding amount.
// GET /customers/:id/unpaid-invoices
func (h *CustomerHandler) UnpaidInvoices(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	invoices, err := h.invoiceService.Unpaid(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Activate reactivates a customer.
// POST /customers/:id/activate
func (h *CustomerHandler) Activate(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Deactivate deactivates a customer.
// POST /customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer without invoices or payments.
// DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), lineID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
