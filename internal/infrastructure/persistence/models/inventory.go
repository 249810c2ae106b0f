package models

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the StockItem aggregate
type StockItemModel struct {
	ScopedAggregateModel
	SKU          string               `gorm:"column:sku;type:varchar(50);not null;index"`
	Name         string               `gorm:"type:varchar(200);not null"`
	Unit         string               `gorm:"type:varchar(20);not null;default:'pcs'"`
	Quantity     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status       inventory.ItemStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (StockItemModel) TableName() string {
	return "stock_items"
}

func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		ScopedAggregateRoot: m.ToDomainScoped(),
		SKU:                 m.SKU,
		Name:                m.Name,
		Unit:                m.Unit,
		Quantity:            m.Quantity,
		ReorderLevel:        m.ReorderLevel,
		UnitCost:            m.UnitCost,
		SalePrice:           m.SalePrice,
		Status:              m.Status,
	}
}

func (m *StockItemModel) FromDomain(i *inventory.StockItem) {
	m.FromDomainScoped(i.ScopedAggregateRoot)
	m.SKU = i.SKU
	m.Name = i.Name
	m.Unit = i.Unit
	m.Quantity = i.Quantity
	m.ReorderLevel = i.ReorderLevel
	m.UnitCost = i.UnitCost
	m.SalePrice = i.SalePrice
	m.Status = i.Status
}

func StockItemModelFromDomain(i *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(i)
	return m
}

// StockAdjustmentModel is an append-only ledger row
type StockAdjustmentModel struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey"`
	BusinessLineID uuid.UUID                `gorm:"type:uuid;not null;index"`
	StockItemID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	SKU            string                   `gorm:"column:sku;type:varchar(50);not null"`
	Type           inventory.AdjustmentType `gorm:"type:varchar(20);not null"`
	QuantityBefore decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Delta          decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Reason         string                   `gorm:"type:text"`
	Reference      string                   `gorm:"type:varchar(50)"`
	CreatedBy      *uuid.UUID               `gorm:"type:uuid"`
	CreatedAt      time.Time                `gorm:"not null;index"`
}

func (StockAdjustmentModel) TableName() string {
	return "stock_adjustments"
}

func (m *StockAdjustmentModel) ToDomain() *inventory.StockAdjustment {
	return &inventory.StockAdjustment{
		ID:             m.ID,
		BusinessLineID: m.BusinessLineID,
		StockItemID:    m.StockItemID,
		SKU:            m.SKU,
		Type:           m.Type,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Delta:          m.Delta,
		UnitCost:       m.UnitCost,
		Reason:         m.Reason,
		Reference:      m.Reference,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

func StockAdjustmentModelFromDomain(a *inventory.StockAdjustment) *StockAdjustmentModel {
	return &StockAdjustmentModel{
		ID:             a.ID,
		BusinessLineID: a.BusinessLineID,
		StockItemID:    a.StockItemID,
		SKU:            a.SKU,
		Type:           a.Type,
		QuantityBefore: a.QuantityBefore,
		QuantityAfter:  a.QuantityAfter,
		Delta:          a.Delta,
		UnitCost:       a.UnitCost,
		Reason:         a.Reason,
		Reference:      a.Reference,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
