package handler

import (
	tradeapp "github.com/bizline/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// IntakeHandler serves purchase intakes (goods received from vendors)
type IntakeHandler struct {
	BaseHandler
	intakeService *tradeapp.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(intakeService *tradeapp.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// Create creates a draft intake.
// POST /stock/intakes
func (h *IntakeHandler) Create(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateIntakeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	intake, err := h.intakeService.Create(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, intake)
}

// GetByID returns one intake.
// GET /stock/intakes/:id
func (h *IntakeHandler) GetByID(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	intake, err := h.intakeService.GetByID(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, intake)
}

// List lists intakes.
// GET /stock/intakes
func (h *IntakeHandler) List(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter tradeapp.IntakeListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	intakes, total, err := h.intakeService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, intakes, total, p, size)
}

// Receive books a draft intake into stock and the vendor payable.
// POST /stock/intakes/:id/receive
func (h *IntakeHandler) Receive(c *gin.Context) {
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

	intake, err := h.intakeService.Receive(c.Request.Context(), lineID, id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, intake)
}

// Cancel cancels a draft intake.
// POST /stock/intakes/:id/cancel
func (h *IntakeHandler) Cancel(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	intake, err := h.intakeService.Cancel(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, intake)
}
