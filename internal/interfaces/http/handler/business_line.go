package handler

import (
	"strconv"

	blapp "github.com/bizline/backoffice/internal/application/businessline"
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BusinessLineHandler serves business line administration
type BusinessLineHandler struct {
	BaseHandler
	service *blapp.BusinessLineService
}

// NewBusinessLineHandler creates a new BusinessLineHandler
func NewBusinessLineHandler(service *blapp.BusinessLineService) *BusinessLineHandler {
	return &BusinessLineHandler{service: service}
}

// Create creates a business line.
// POST /business-lines
func (h *BusinessLineHandler) Create(c *gin.Context) {
	var req blapp.CreateBusinessLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, line)
}

// GetByID returns one business line.
// GET /business-lines/:id
func (h *BusinessLineHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if !h.canSee(c, id) {
		return
	}

	line, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// List lists business lines. Non-admin callers only see the lines assigned to them.
// GET /business-lines
func (h *BusinessLineHandler) List(c *gin.Context) {
	var filter blapp.BusinessLineListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	var restrictTo []uuid.UUID
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.GetRole() != identity.RoleAdmin {
		ids, err := claims.GetBusinessLineUUIDs()
		if err != nil {
			h.Unauthorized(c, "Invalid token claims")
			return
		}
		restrictTo = ids
	}

	lines, total, err := h.service.List(c.Request.Context(), filter, restrictTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, lines, total, p, size)
}

// Update changes name and description.
// PUT /business-lines/:id
func (h *BusinessLineHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req blapp.UpdateBusinessLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Activate re-enables a business line.
// POST /business-lines/:id/activate
func (h *BusinessLineHandler) Activate(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	line, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Deactivate blocks new writes in a business line.
// POST /business-lines/:id/deactivate
func (h *BusinessLineHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	line, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Dependencies reports the records scoped to a business line.
// GET /business-lines/:id/dependencies
func (h *BusinessLineHandler) Dependencies(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	report, err := h.service.Dependencies(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Delete removes a business line. ?force=true also removes every dependent record.
// DELETE /business-lines/:id
func (h *BusinessLineHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	force := false
	if raw := c.Query("force"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "force must be true or false")
			return
		}
		force = v
	}

	result, err := h.service.Delete(c.Request.Context(), id, force)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// canSee refuses lines outside the caller's assignment
func (h *BusinessLineHandler) canSee(c *gin.Context, id uuid.UUID) bool {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.GetRole() == identity.RoleAdmin {
		return true
	}
	ids, err := claims.GetBusinessLineUUIDs()
	if err == nil {
		for _, allowed := range ids {
			if allowed == id {
				return true
			}
		}
	}
	h.ErrorWithCode(c, dto.ErrCodeForbidden, "You have no access to this business line")
	return false
}
