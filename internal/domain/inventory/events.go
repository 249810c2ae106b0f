package inventory

import (
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeStockItem = "StockItem"

const (
	EventTypeStockItemCreated       = "StockItemCreated"
	EventTypeStockItemUpdated       = "StockItemUpdated"
	EventTypeStockItemStatusChanged = "StockItemStatusChanged"
	EventTypeStockItemDeleted       = "StockItemDeleted"
	EventTypeStockAdjusted          = "StockAdjusted"
	EventTypeLowStock               = "LowStock"
)

// StockItemCreatedEvent is published when an item is added to a line
type StockItemCreatedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
}

func NewStockItemCreatedEvent(item *StockItem) *StockItemCreatedEvent {
	return &StockItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemCreated, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
	}
}

// StockItemUpdatedEvent carries the descriptive and pricing fields after an update
type StockItemUpdatedEvent struct {
	shared.BaseDomainEvent
	StockItemID  uuid.UUID       `json:"stock_item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	SalePrice    decimal.Decimal `json:"sale_price"`
}

func NewStockItemUpdatedEvent(item *StockItem) *StockItemUpdatedEvent {
	return &StockItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemUpdated, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
		ReorderLevel:    item.ReorderLevel,
		SalePrice:       item.SalePrice,
	}
}

// StockItemStatusChangedEvent is published on activation or deactivation
type StockItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID  `json:"stock_item_id"`
	SKU         string     `json:"sku"`
	OldStatus   ItemStatus `json:"old_status"`
	NewStatus   ItemStatus `json:"new_status"`
}

func NewStockItemStatusChangedEvent(item *StockItem, oldStatus, newStatus ItemStatus) *StockItemStatusChangedEvent {
	return &StockItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemStatusChanged, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// StockItemDeletedEvent is published after an item without movements is removed
type StockItemDeletedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	SKU         string    `json:"sku"`
}

func NewStockItemDeletedEvent(item *StockItem) *StockItemDeletedEvent {
	return &StockItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemDeleted, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
	}
}

// StockAdjustedEvent is published for every quantity change
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID  uuid.UUID       `json:"stock_item_id"`
	SKU          string          `json:"sku"`
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	Type         AdjustmentType  `json:"type"`
	Delta        decimal.Decimal `json:"delta"`
	Quantity     decimal.Decimal `json:"quantity"`
}

func NewStockAdjustedEvent(item *StockItem, adj *StockAdjustment) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
		AdjustmentID:    adj.ID,
		Type:            adj.Type,
		Delta:           adj.Delta,
		Quantity:        adj.QuantityAfter,
	}
}

// LowStockEvent is published when an outgoing movement leaves the item at or below its reorder level
type LowStockEvent struct {
	shared.BaseDomainEvent
	StockItemID  uuid.UUID       `json:"stock_item_id"`
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

func NewLowStockEvent(item *StockItem) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeStockItem, item.ID, item.BusinessLineID),
		StockItemID:     item.ID,
		SKU:             item.SKU,
		Quantity:        item.Quantity,
		ReorderLevel:    item.ReorderLevel,
	}
}
