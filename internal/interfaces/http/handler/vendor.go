package handler

import (
	partnerapp "github.com/bizline/backoffice/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// VendorHandler serves vendor records of the active business line
type VendorHandler struct {
	BaseHandler
	vendorService *partnerapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *partnerapp.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// Create creates a vendor.
// POST /vendors
func (h *VendorHandler) Create(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req partnerapp.CreateVendorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	vendor, err := h.vendorService.Create(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// GetByID returns one vendor.
// GET /vendors/:id
func (h *VendorHandler) GetByID(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// List lists vendors.
// GET /vendors
func (h *VendorHandler) List(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter partnerapp.VendorListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	vendors, total, err := h.vendorService.List(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, vendors, total, p, size)
}

// Update updates a vendor.
// PUT /vendors/:id
func (h *VendorHandler) Update(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateVendorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), lineID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// Activate reactivates a vendor.
// POST /vendors/:id/activate
func (h *VendorHandler) Activate(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.Activate(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// Deactivate deactivates a vendor.
// POST /vendors/:id/deactivate
func (h *VendorHandler) Deactivate(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.Deactivate(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// Delete removes a vendor without intakes or payments.
// DELETE /vendors/:id
func (h *VendorHandler) Delete(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), lineID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
