package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType classifies a stock movement
type AdjustmentType string

const (
	AdjustmentTypeCount        AdjustmentType = "COUNT"
	AdjustmentTypeCorrection   AdjustmentType = "CORRECTION"
	AdjustmentTypeDamage       AdjustmentType = "DAMAGE"
	AdjustmentTypePurchase     AdjustmentType = "PURCHASE"
	AdjustmentTypeSale         AdjustmentType = "SALE"
	AdjustmentTypeSaleReversal AdjustmentType = "SALE_REVERSAL"
)

func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeCount, AdjustmentTypeCorrection, AdjustmentTypeDamage,
		AdjustmentTypePurchase, AdjustmentTypeSale, AdjustmentTypeSaleReversal:
		return true
	}
	return false
}

// IsManual reports whether users may post this type directly
func (t AdjustmentType) IsManual() bool {
	return t == AdjustmentTypeCorrection || t == AdjustmentTypeDamage
}

// StockAdjustment is an immutable ledger row describing one change of an item's quantity
type StockAdjustment struct {
	ID             uuid.UUID
	BusinessLineID uuid.UUID
	StockItemID    uuid.UUID
	SKU            string
	Type           AdjustmentType
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Delta          decimal.Decimal
	UnitCost       decimal.Decimal
	Reason         string
	Reference      string
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
}

func newStockAdjustment(item *StockItem, t AdjustmentType, before, after decimal.Decimal, reason, reference string) *StockAdjustment {
	return &StockAdjustment{
		ID:             uuid.New(),
		BusinessLineID: item.BusinessLineID,
		StockItemID:    item.ID,
		SKU:            item.SKU,
		Type:           t,
		QuantityBefore: before,
		QuantityAfter:  after,
		Delta:          after.Sub(before),
		UnitCost:       item.UnitCost,
		Reason:         reason,
		Reference:      reference,
		CreatedAt:      time.Now(),
	}
}

// SetCreatedBy records the user who caused the adjustment
func (a *StockAdjustment) SetCreatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		a.CreatedBy = &userID
	}
}

// ValueDelta returns the signed value change at the adjustment's unit cost
func (a *StockAdjustment) ValueDelta() decimal.Decimal {
	return a.Delta.Mul(a.UnitCost).Round(2)
}
