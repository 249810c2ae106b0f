package models

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoiceModel is the persistence model for the SalesInvoice aggregate.
// Items are stored in sales_invoice_items and loaded separately.
type SalesInvoiceModel struct {
	ScopedAggregateModel
	InvoiceNumber string              `gorm:"type:varchar(50);not null;index"`
	CustomerID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName  string              `gorm:"type:varchar(200)"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status        trade.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IssuedAt      *time.Time
	DueDate       *time.Time
	VoidedAt      *time.Time
	VoidReason    string `gorm:"type:text"`
	Notes         string `gorm:"type:text"`
}

func (SalesInvoiceModel) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceItemModel is one invoice line
type SalesInvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (SalesInvoiceItemModel) TableName() string {
	return "sales_invoice_items"
}

// ToDomain converts the invoice and its item rows to the domain aggregate
func (m *SalesInvoiceModel) ToDomain(items []SalesInvoiceItemModel) *trade.SalesInvoice {
	inv := &trade.SalesInvoice{
		ScopedAggregateRoot: m.ToDomainScoped(),
		InvoiceNumber:       m.InvoiceNumber,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		Items:               make([]trade.SalesInvoiceItem, 0, len(items)),
		Subtotal:            m.Subtotal,
		Discount:            m.Discount,
		Total:               m.Total,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
		IssuedAt:            m.IssuedAt,
		DueDate:             m.DueDate,
		VoidedAt:            m.VoidedAt,
		VoidReason:          m.VoidReason,
		Notes:               m.Notes,
	}
	for _, it := range items {
		inv.Items = append(inv.Items, trade.SalesInvoiceItem{
			ID:          it.ID,
			InvoiceID:   it.InvoiceID,
			StockItemID: it.StockItemID,
			SKU:         it.SKU,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return inv
}

// SalesInvoiceModelFromDomain splits the aggregate into the invoice row and its item rows
func SalesInvoiceModelFromDomain(inv *trade.SalesInvoice) (*SalesInvoiceModel, []SalesInvoiceItemModel) {
	m := &SalesInvoiceModel{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		Status:        inv.Status,
		IssuedAt:      inv.IssuedAt,
		DueDate:       inv.DueDate,
		VoidedAt:      inv.VoidedAt,
		VoidReason:    inv.VoidReason,
		Notes:         inv.Notes,
	}
	m.FromDomainScoped(inv.ScopedAggregateRoot)

	items := make([]SalesInvoiceItemModel, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, SalesInvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			StockItemID: it.StockItemID,
			SKU:         it.SKU,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return m, items
}

// PurchaseIntakeModel is the persistence model for the PurchaseIntake aggregate
type PurchaseIntakeModel struct {
	ScopedAggregateModel
	IntakeNumber string             `gorm:"type:varchar(50);not null;index"`
	VendorID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	VendorName   string             `gorm:"type:varchar(200)"`
	Total        decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status       trade.IntakeStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	Notes        string `gorm:"type:text"`
}

func (PurchaseIntakeModel) TableName() string {
	return "purchase_intakes"
}

// PurchaseIntakeItemModel is one received line
type PurchaseIntakeItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	IntakeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (PurchaseIntakeItemModel) TableName() string {
	return "purchase_intake_items"
}

func (m *PurchaseIntakeModel) ToDomain(items []PurchaseIntakeItemModel) *trade.PurchaseIntake {
	p := &trade.PurchaseIntake{
		ScopedAggregateRoot: m.ToDomainScoped(),
		IntakeNumber:        m.IntakeNumber,
		VendorID:            m.VendorID,
		VendorName:          m.VendorName,
		Items:               make([]trade.PurchaseIntakeItem, 0, len(items)),
		Total:               m.Total,
		Status:              m.Status,
		ReceivedAt:          m.ReceivedAt,
		CancelledAt:         m.CancelledAt,
		Notes:               m.Notes,
	}
	for _, it := range items {
		p.Items = append(p.Items, trade.PurchaseIntakeItem{
			ID:          it.ID,
			IntakeID:    it.IntakeID,
			StockItemID: it.StockItemID,
			SKU:         it.SKU,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Amount:      it.Amount,
		})
	}
	return p
}

func PurchaseIntakeModelFromDomain(p *trade.PurchaseIntake) (*PurchaseIntakeModel, []PurchaseIntakeItemModel) {
	m := &PurchaseIntakeModel{
		IntakeNumber: p.IntakeNumber,
		VendorID:     p.VendorID,
		VendorName:   p.VendorName,
		Total:        p.Total,
		Status:       p.Status,
		ReceivedAt:   p.ReceivedAt,
		CancelledAt:  p.CancelledAt,
		Notes:        p.Notes,
	}
	m.FromDomainScoped(p.ScopedAggregateRoot)

	items := make([]PurchaseIntakeItemModel, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PurchaseIntakeItemModel{
			ID:          it.ID,
			IntakeID:    p.ID,
			StockItemID: it.StockItemID,
			SKU:         it.SKU,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Amount:      it.Amount,
		})
	}
	return m, items
}
