package inventory

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStockItemRequest represents a request to create a stock item.
// A positive OpeningQuantity is booked as a COUNT adjustment.
type CreateStockItemRequest struct {
	SKU             string           `json:"sku" binding:"required,code"`
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Unit            string           `json:"unit" binding:"max=20"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level" binding:"omitempty,decimal_gte0"`
	SalePrice       *decimal.Decimal `json:"sale_price" binding:"omitempty,decimal_gte0"`
	UnitCost        *decimal.Decimal `json:"unit_cost" binding:"omitempty,decimal_gte0"`
	OpeningQuantity *decimal.Decimal `json:"opening_quantity" binding:"omitempty,decimal_gte0"`
	CreatedBy       uuid.UUID        `json:"-"`
}

// UpdateStockItemRequest represents a partial update of a stock item
type UpdateStockItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	ReorderLevel *decimal.Decimal `json:"reorder_level" binding:"omitempty,decimal_gte0"`
	SalePrice    *decimal.Decimal `json:"sale_price" binding:"omitempty,decimal_gte0"`
	Active       *bool            `json:"active"`
}

// StockItemListFilter represents filter options for the stock item list
type StockItemListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	BusinessLineID uuid.UUID       `json:"business_line_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockValue     decimal.Decimal `json:"stock_value"`
	LowStock       bool            `json:"low_stock"`
	Status         string          `json:"status"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AdjustStockRequest is a manual signed correction of one item
type AdjustStockRequest struct {
	StockItemID uuid.UUID       `json:"stock_item_id" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=CORRECTION DAMAGE"`
	Delta       decimal.Decimal `json:"delta" binding:"required"`
	Reason      string          `json:"reason" binding:"required,max=500"`
	CreatedBy   uuid.UUID       `json:"-"`
}

// CountLine is the counted quantity of one item
type CountLine struct {
	StockItemID uuid.UUID       `json:"stock_item_id" binding:"required"`
	Counted     decimal.Decimal `json:"counted" binding:"decimal_gte0"`
}

// StockCountRequest sets the physical count of one or more items
type StockCountRequest struct {
	Lines     []CountLine `json:"lines" binding:"required,min=1,dive"`
	Reason    string      `json:"reason" binding:"max=500"`
	Reference string      `json:"reference" binding:"max=100"`
	CreatedBy uuid.UUID   `json:"-"`
}

// StockCountResult reports the adjustments recorded by a count
type StockCountResult struct {
	Adjustments []AdjustmentResponse `json:"adjustments"`
	Unchanged   []uuid.UUID          `json:"unchanged"`
}

// AdjustmentListFilter represents filter options for the adjustment ledger
type AdjustmentListFilter struct {
	StockItemID string     `form:"stock_item_id" binding:"omitempty,uuid"`
	Type        string     `form:"type" binding:"omitempty,oneof=COUNT CORRECTION DAMAGE PURCHASE SALE SALE_REVERSAL"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdjustmentResponse represents one ledger row in API responses
type AdjustmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	StockItemID    uuid.UUID       `json:"stock_item_id"`
	SKU            string          `json:"sku"`
	Type           string          `json:"type"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Delta          decimal.Decimal `json:"delta"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ValueDelta     decimal.Decimal `json:"value_delta"`
	Reason         string          `json:"reason"`
	Reference      string          `json:"reference"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToStockItemResponse converts a domain StockItem to StockItemResponse
func ToStockItemResponse(i *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:             i.ID,
		BusinessLineID: i.BusinessLineID,
		SKU:            i.SKU,
		Name:           i.Name,
		Unit:           i.Unit,
		Quantity:       i.Quantity,
		ReorderLevel:   i.ReorderLevel,
		UnitCost:       i.UnitCost,
		SalePrice:      i.SalePrice,
		StockValue:     i.StockValue(),
		LowStock:       i.IsLowStock(),
		Status:         string(i.Status),
		Version:        i.Version,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// ToStockItemResponses converts a slice of domain StockItems
func ToStockItemResponses(items []inventory.StockItem) []StockItemResponse {
	out := make([]StockItemResponse, len(items))
	for i := range items {
		out[i] = ToStockItemResponse(&items[i])
	}
	return out
}

// ToAdjustmentResponse converts a domain StockAdjustment to AdjustmentResponse
func ToAdjustmentResponse(a *inventory.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:             a.ID,
		StockItemID:    a.StockItemID,
		SKU:            a.SKU,
		Type:           string(a.Type),
		QuantityBefore: a.QuantityBefore,
		QuantityAfter:  a.QuantityAfter,
		Delta:          a.Delta,
		UnitCost:       a.UnitCost,
		ValueDelta:     a.ValueDelta(),
		Reason:         a.Reason,
		Reference:      a.Reference,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
