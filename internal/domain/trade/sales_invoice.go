package trade

import (
	"strings"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// AcceptsPayments reports whether payments can be applied in this status
func (s InvoiceStatus) AcceptsPayments() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// SalesInvoiceItem is one line of a sales invoice
type SalesInvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	StockItemID uuid.UUID
	SKU         string
	Name        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// SalesInvoice is a bill issued to a customer.
// PaidAmount is the sum of payments currently applied; it never exceeds Total.
type SalesInvoice struct {
	shared.ScopedAggregateRoot
	InvoiceNumber string
	CustomerID    uuid.UUID
	CustomerName  string
	Items         []SalesInvoiceItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        InvoiceStatus
	IssuedAt      *time.Time
	DueDate       *time.Time
	VoidedAt      *time.Time
	VoidReason    string
	Notes         string
}

// NewSalesInvoice creates a draft invoice for a customer
func NewSalesInvoice(businessLineID uuid.UUID, invoiceNumber string, customerID uuid.UUID, customerName string) (*SalesInvoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		invoiceNumber = shared.GenerateDocumentNumber("INV", time.Now())
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	return &SalesInvoice{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Items:               make([]SalesInvoiceItem, 0),
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              InvoiceStatusDraft,
	}, nil
}

// AddItem appends a line. Only drafts can be edited.
func (inv *SalesInvoice) AddItem(stockItemID uuid.UUID, sku, name string, quantity, unitPrice decimal.Decimal) (*SalesInvoiceItem, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Stock item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	for _, existing := range inv.Items {
		if existing.StockItemID == stockItemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item "+sku+" is already on the invoice")
		}
	}

	line := SalesInvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   inv.ID,
		StockItemID: stockItemID,
		SKU:         sku,
		Name:        name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
	}
	inv.Items = append(inv.Items, line)
	inv.recalculate()
	inv.IncrementVersion()
	return &inv.Items[len(inv.Items)-1], nil
}

// ClearItems removes all lines of a draft
func (inv *SalesInvoice) ClearItems() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	inv.Items = make([]SalesInvoiceItem, 0)
	inv.recalculate()
	inv.IncrementVersion()
	return nil
}

// SetDiscount sets the invoice-level discount
func (inv *SalesInvoice) SetDiscount(discount decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(inv.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	inv.Discount = discount
	inv.recalculate()
	inv.IncrementVersion()
	return nil
}

// SetDueDate sets when payment is expected
func (inv *SalesInvoice) SetDueDate(due *time.Time) {
	inv.DueDate = due
}

func (inv *SalesInvoice) recalculate() {
	subtotal := decimal.Zero
	for _, line := range inv.Items {
		subtotal = subtotal.Add(line.Amount)
	}
	inv.Subtotal = subtotal
	if inv.Discount.GreaterThan(subtotal) {
		inv.Discount = subtotal
	}
	inv.Total = subtotal.Sub(inv.Discount)
}

// Issue finalizes the draft. Stock deduction is done by the caller.
func (inv *SalesInvoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "An invoice needs at least one item")
	}
	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	if inv.Total.IsZero() {
		inv.Status = InvoiceStatusPaid
	}
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return nil
}

// Outstanding returns the part of the total not yet covered by payments
func (inv *SalesInvoice) Outstanding() decimal.Decimal {
	return inv.Total.Sub(inv.PaidAmount)
}

// ApplyPayment records a payment against the invoice
func (inv *SalesInvoice) ApplyPayment(amount decimal.Decimal) error {
	if !inv.Status.AcceptsPayments() {
		return shared.NewDomainError("INVALID_STATE", "Invoice "+inv.InvoiceNumber+" does not accept payments in status "+inv.Status.String())
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Outstanding()) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding amount of "+inv.Outstanding().StringFixed(2))
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.refreshPaymentStatus()
	inv.IncrementVersion()
	return nil
}

// ReversePayment removes a previously applied payment, e.g. after a cheque bounced
func (inv *SalesInvoice) ReversePayment(amount decimal.Decimal) error {
	if inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice has no applied payments")
	}
	if !amount.IsPositive() || amount.GreaterThan(inv.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversed amount must be positive and not exceed the paid amount")
	}
	inv.PaidAmount = inv.PaidAmount.Sub(amount)
	inv.refreshPaymentStatus()
	inv.IncrementVersion()
	return nil
}

func (inv *SalesInvoice) refreshPaymentStatus() {
	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.Total):
		inv.Status = InvoiceStatusPaid
	case inv.PaidAmount.IsPositive():
		inv.Status = InvoiceStatusPartiallyPaid
	default:
		inv.Status = InvoiceStatusIssued
	}
}

// Void cancels an issued invoice that has no payments applied.
// Stock is returned by the caller.
func (inv *SalesInvoice) Void(reason string) error {
	if inv.Status == InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Draft invoices are deleted, not voided")
	}
	if inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}
	if inv.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVOICE_HAS_PAYMENTS", "Invoices with applied payments cannot be voided")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "A void reason is required")
	}
	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = strings.TrimSpace(reason)
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))
	return nil
}

// IsDraft reports whether the invoice can still be edited or deleted
func (inv *SalesInvoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsOverdue reports whether an unpaid invoice is past its due date
func (inv *SalesInvoice) IsOverdue(now time.Time) bool {
	return inv.Status.AcceptsPayments() && inv.DueDate != nil && now.After(*inv.DueDate)
}
