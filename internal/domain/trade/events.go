package trade

import (
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeSalesInvoice   = "SalesInvoice"
	AggregateTypePurchaseIntake = "PurchaseIntake"
)

const (
	EventTypeInvoiceIssued  = "SalesInvoiceIssued"
	EventTypeInvoiceVoided  = "SalesInvoiceVoided"
	EventTypeIntakeReceived = "PurchaseIntakeReceived"
)

// InvoiceIssuedEvent is published when an invoice leaves draft
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

func NewInvoiceIssuedEvent(inv *SalesInvoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeSalesInvoice, inv.ID, inv.BusinessLineID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Total:           inv.Total,
	}
}

// InvoiceVoidedEvent is published when an issued invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
}

func NewInvoiceVoidedEvent(inv *SalesInvoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeSalesInvoice, inv.ID, inv.BusinessLineID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.VoidReason,
	}
}

// IntakeReceivedEvent is published when goods are booked into stock
type IntakeReceivedEvent struct {
	shared.BaseDomainEvent
	IntakeID     uuid.UUID       `json:"intake_id"`
	IntakeNumber string          `json:"intake_number"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	Total        decimal.Decimal `json:"total"`
}

func NewIntakeReceivedEvent(p *PurchaseIntake) *IntakeReceivedEvent {
	return &IntakeReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIntakeReceived, AggregateTypePurchaseIntake, p.ID, p.BusinessLineID),
		IntakeID:        p.ID,
		IntakeNumber:    p.IntakeNumber,
		VendorID:        p.VendorID,
		Total:           p.Total,
	}
}
