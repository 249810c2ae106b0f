package trade

import (
	"strings"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntakeStatus represents the status of a purchase intake
type IntakeStatus string

const (
	IntakeStatusDraft     IntakeStatus = "DRAFT"
	IntakeStatusReceived  IntakeStatus = "RECEIVED"
	IntakeStatusCancelled IntakeStatus = "CANCELLED"
)

func (s IntakeStatus) IsValid() bool {
	return s == IntakeStatusDraft || s == IntakeStatusReceived || s == IntakeStatusCancelled
}

// PurchaseIntakeItem is one received line
type PurchaseIntakeItem struct {
	ID          uuid.UUID
	IntakeID    uuid.UUID
	StockItemID uuid.UUID
	SKU         string
	Name        string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Amount      decimal.Decimal
}

// PurchaseIntake records goods delivered by a vendor
type PurchaseIntake struct {
	shared.ScopedAggregateRoot
	IntakeNumber string
	VendorID     uuid.UUID
	VendorName   string
	Items        []PurchaseIntakeItem
	Total        decimal.Decimal
	Status       IntakeStatus
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	Notes        string
}

// NewPurchaseIntake creates a draft intake
func NewPurchaseIntake(businessLineID uuid.UUID, intakeNumber string, vendorID uuid.UUID, vendorName string) (*PurchaseIntake, error) {
	intakeNumber = strings.TrimSpace(intakeNumber)
	if intakeNumber == "" {
		intakeNumber = shared.GenerateDocumentNumber("GRN", time.Now())
	}
	if len(intakeNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INTAKE_NUMBER", "Intake number cannot exceed 50 characters")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	return &PurchaseIntake{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		IntakeNumber:        intakeNumber,
		VendorID:            vendorID,
		VendorName:          vendorName,
		Items:               make([]PurchaseIntakeItem, 0),
		Total:               decimal.Zero,
		Status:              IntakeStatusDraft,
	}, nil
}

// AddItem appends a received line to a draft
func (p *PurchaseIntake) AddItem(stockItemID uuid.UUID, sku, name string, quantity, unitCost decimal.Decimal) error {
	if p.Status != IntakeStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft intakes can be edited")
	}
	if stockItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Stock item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	p.Items = append(p.Items, PurchaseIntakeItem{
		ID:          uuid.New(),
		IntakeID:    p.ID,
		StockItemID: stockItemID,
		SKU:         sku,
		Name:        name,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Amount:      quantity.Mul(unitCost).Round(2),
	})
	p.Total = p.Total.Add(p.Items[len(p.Items)-1].Amount)
	p.IncrementVersion()
	return nil
}

// Receive marks the goods as received. Stock and vendor payable are updated by the caller.
func (p *PurchaseIntake) Receive() error {
	if p.Status != IntakeStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft intakes can be received")
	}
	if len(p.Items) == 0 {
		return shared.NewDomainError("EMPTY_INTAKE", "An intake needs at least one item")
	}
	now := time.Now()
	p.Status = IntakeStatusReceived
	p.ReceivedAt = &now
	p.IncrementVersion()
	p.AddDomainEvent(NewIntakeReceivedEvent(p))
	return nil
}

// Cancel discards a draft
func (p *PurchaseIntake) Cancel() error {
	if p.Status != IntakeStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft intakes can be cancelled")
	}
	now := time.Now()
	p.Status = IntakeStatusCancelled
	p.CancelledAt = &now
	p.IncrementVersion()
	return nil
}
