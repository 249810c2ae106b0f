package inventory

import (
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the status of a stock item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

const (
	skuMaxLength = 50
	// quantities and unit costs are kept to 4 decimal places
	precision = 4
)

// StockItem is a stocked product inside a business line.
// Quantity never goes below zero and every change to it is recorded as a StockAdjustment.
type StockItem struct {
	shared.ScopedAggregateRoot
	SKU          string
	Name         string
	Unit         string
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
	UnitCost     decimal.Decimal // moving average cost
	SalePrice    decimal.Decimal
	Status       ItemStatus
}

// NewStockItem creates an active item with zero quantity
func NewStockItem(businessLineID uuid.UUID, sku, name, unit string) (*StockItem, error) {
	sku = shared.NormalizeCode(sku)
	if err := shared.ValidateCode(sku, skuMaxLength); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name must be between 1 and 200 characters")
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "pcs"
	}

	item := &StockItem{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		SKU:                 sku,
		Name:                name,
		Unit:                unit,
		Quantity:            decimal.Zero,
		ReorderLevel:        decimal.Zero,
		UnitCost:            decimal.Zero,
		SalePrice:           decimal.Zero,
		Status:              ItemStatusActive,
	}
	item.AddDomainEvent(NewStockItemCreatedEvent(item))
	return item, nil
}

// Update changes descriptive and pricing fields. Quantity is not touched here.
func (i *StockItem) Update(name, unit string, reorderLevel, salePrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name must be between 1 and 200 characters")
	}
	if reorderLevel.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if strings.TrimSpace(unit) != "" {
		i.Unit = strings.TrimSpace(unit)
	}
	i.Name = name
	i.ReorderLevel = reorderLevel
	i.SalePrice = salePrice
	i.IncrementVersion()
	i.AddDomainEvent(NewStockItemUpdatedEvent(i))
	return nil
}

// SetOpeningCost sets the unit cost of an item that holds no stock yet
func (i *StockItem) SetOpeningCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if i.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Unit cost of stocked items changes only through receipts")
	}
	i.UnitCost = cost.Round(precision)
	return nil
}

// Receive adds purchased stock and recomputes the moving average cost
func (i *StockItem) Receive(quantity, unitCost decimal.Decimal, reference string) (*StockAdjustment, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !i.IsActive() {
		return nil, shared.NewDomainError("ITEM_INACTIVE", "Inactive items cannot receive stock")
	}

	totalQty := i.Quantity.Add(quantity)
	totalValue := i.Quantity.Mul(i.UnitCost).Add(quantity.Mul(unitCost))
	i.UnitCost = totalValue.Div(totalQty).Round(precision)

	return i.apply(AdjustmentTypePurchase, quantity, "", reference)
}

// Issue removes sold stock
func (i *StockItem) Issue(quantity decimal.Decimal, reference string) (*StockAdjustment, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Issued quantity must be positive")
	}
	return i.apply(AdjustmentTypeSale, quantity.Neg(), "", reference)
}

// ReturnToStock puts back stock from a voided sale
func (i *StockItem) ReturnToStock(quantity decimal.Decimal, reference string) (*StockAdjustment, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Returned quantity must be positive")
	}
	return i.apply(AdjustmentTypeSaleReversal, quantity, "", reference)
}

// Adjust applies a signed manual correction
func (i *StockItem) Adjust(adjustmentType AdjustmentType, delta decimal.Decimal, reason string) (*StockAdjustment, error) {
	if !adjustmentType.IsManual() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Only CORRECTION and DAMAGE adjustments can be entered manually")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if adjustmentType == AdjustmentTypeDamage && delta.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Damage adjustments must reduce stock")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "A reason is required for manual adjustments")
	}
	return i.apply(adjustmentType, delta, reason, "")
}

// Count records a physical count. A count equal to the book quantity returns nil.
func (i *StockItem) Count(counted decimal.Decimal, reason, reference string) (*StockAdjustment, error) {
	if counted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	delta := counted.Sub(i.Quantity)
	if delta.IsZero() {
		return nil, nil
	}
	return i.apply(AdjustmentTypeCount, delta, reason, reference)
}

func (i *StockItem) apply(adjustmentType AdjustmentType, delta decimal.Decimal, reason, reference string) (*StockAdjustment, error) {
	if !i.IsActive() && delta.IsPositive() && adjustmentType != AdjustmentTypeSaleReversal {
		return nil, shared.NewDomainError("ITEM_INACTIVE", "Inactive items cannot receive stock")
	}
	after := i.Quantity.Add(delta).Round(precision)
	if after.IsNegative() {
		return nil, shared.NewDomainErrorWithDetails(
			shared.ErrInsufficientStock.Code,
			"Insufficient stock for "+i.SKU+": available "+i.Quantity.String()+", requested "+delta.Neg().String(),
			map[string]string{"sku": i.SKU, "available": i.Quantity.String(), "requested": delta.Neg().String()},
		)
	}

	adj := newStockAdjustment(i, adjustmentType, i.Quantity, after, reason, reference)
	i.Quantity = after
	i.IncrementVersion()
	i.AddDomainEvent(NewStockAdjustedEvent(i, adj))
	if i.IsLowStock() && delta.IsNegative() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
	return adj, nil
}

// IsLowStock reports whether quantity is at or below the reorder level.
// An item with no reorder level is low once it runs out.
func (i *StockItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// StockValue returns quantity times moving average cost
func (i *StockItem) StockValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost).Round(2)
}

func (i *StockItem) IsActive() bool {
	return i.Status == ItemStatusActive
}

func (i *StockItem) Activate() error {
	if i.IsActive() {
		return shared.NewDomainError("ALREADY_ACTIVE", "Item is already active")
	}
	i.Status = ItemStatusActive
	i.IncrementVersion()
	i.AddDomainEvent(NewStockItemStatusChangedEvent(i, ItemStatusInactive, ItemStatusActive))
	return nil
}

func (i *StockItem) Deactivate() error {
	if !i.IsActive() {
		return shared.NewDomainError("ALREADY_INACTIVE", "Item is already inactive")
	}
	i.Status = ItemStatusInactive
	i.IncrementVersion()
	i.AddDomainEvent(NewStockItemStatusChangedEvent(i, ItemStatusActive, ItemStatusInactive))
	return nil
}

// MarkDeleted records the removal of the item so that listeners can react
func (i *StockItem) MarkDeleted() {
	i.AddDomainEvent(NewStockItemDeletedEvent(i))
}
