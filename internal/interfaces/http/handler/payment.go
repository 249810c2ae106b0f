package handler

import (
	"context"
	"net/http"

	financeapp "github.com/bizline/backoffice/internal/application/finance"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Idempotency headers of payment creation
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 128
)

// PaymentHandler serves payments and the cheque/credit lifecycle
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create records a payment. A repeated Idempotency-Key answers 200 with the
// first payment and the Idempotent-Replayed header instead of recording it twice.
// POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "Idempotency-Key must be at most 128 characters")
		return
	}
	var req financeapp.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.RecordedBy = userID
	req.IdempotencyKey = key

	payment, replayed, err := h.paymentService.Create(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if replayed {
		c.Header(IdempotentReplayedHeader, "true")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
		return
	}
	h.Created(c, payment)
}

// GetByID returns one payment.
// GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// List lists payments.
// GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, payments, total, p, size)
}

// History returns the status changes of one payment.
// GET /payments/:id/history
func (h *PaymentHandler) History(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	history, err := h.paymentService.History(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// PendingCheques lists cheques awaiting clearance.
// GET /payments/cheques/pending
func (h *PaymentHandler) PendingCheques(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter financeapp.PendingChequeFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	cheques, err := h.paymentService.PendingCheques(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cheques)
}

// StatusChanges returns the status timeline across payments.
// GET /payments/status-changes
func (h *PaymentHandler) StatusChanges(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter financeapp.StatusChangeFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	changes, err := h.paymentService.StatusChanges(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, changes)
}

// Realize marks a pending cheque as cleared.
// POST /payments/:id/realize
func (h *PaymentHandler) Realize(c *gin.Context) {
	h.transition(c, h.paymentService.Realize)
}

// Bounce marks a pending cheque as bounced.
// POST /payments/:id/bounce
func (h *PaymentHandler) Bounce(c *gin.Context) {
	h.transition(c, h.paymentService.Bounce)
}

// Settle settles a pending credit sale.
// POST /payments/:id/settle
func (h *PaymentHandler) Settle(c *gin.Context) {
	h.transition(c, h.paymentService.Settle)
}

// Cancel cancels a pending payment.
// POST /payments/:id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.paymentService.Cancel)
}

type transitionFunc func(ctx context.Context, businessLineID, id uuid.UUID, req financeapp.TransitionRequest, by uuid.UUID) (*financeapp.PaymentResponse, error)

// transition runs a lifecycle change. The {note} body is optional.
func (h *PaymentHandler) transition(c *gin.Context, fn transitionFunc) {
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
	var req financeapp.TransitionRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	payment, err := fn(c.Request.Context(), lineID, id, req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}
