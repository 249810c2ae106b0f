package handler

import (
	inventoryapp "github.com/bizline/backoffice/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// StockHandler serves stock items, adjustments and inventory counts
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateItem creates a stock item, optionally with an opening quantity.
// POST /stock/items
func (h *StockHandler) CreateItem(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateStockItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	item, err := h.stockService.CreateItem(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem returns one stock item.
// GET /stock/items/:id
func (h *StockHandler) GetItem(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	item, err := h.stockService.GetItem(c.Request.Context(), lineID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems lists stock items.
// GET /stock/items
func (h *StockHandler) ListItems(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter inventoryapp.StockItemListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.stockService.ListItems(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

// LowStock lists items at or below their reorder level.
// GET /stock/items/low
func (h *StockHandler) LowStock(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}

	items, err := h.stockService.LowStock(c.Request.Context(), lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateItem updates a stock item's master data.
// PUT /stock/items/:id
func (h *StockHandler) UpdateItem(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateStockItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.stockService.UpdateItem(c.Request.Context(), lineID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes a stock item.
// DELETE /stock/items/:id
func (h *StockHandler) DeleteItem(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.stockService.DeleteItem(c.Request.Context(), lineID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Adjust records a manual correction or damage.
// POST /stock/adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	adjustment, err := h.stockService.Adjust(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

// ListAdjustments lists the stock ledger.
// GET /stock/adjustments
func (h *StockHandler) ListAdjustments(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	var filter inventoryapp.AdjustmentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	adjustments, total, err := h.stockService.ListAdjustments(c.Request.Context(), lineID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, adjustments, total, p, size)
}

// Count applies an inventory count.
// POST /stock/counts
func (h *StockHandler) Count(c *gin.Context) {
	lineID, ok := h.BusinessLine(c)
	if !ok {
		return
	}
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req inventoryapp.StockCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	result, err := h.stockService.Count(c.Request.Context(), lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
