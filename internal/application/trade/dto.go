package trade

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Sales invoice DTOs
// =============================================================================

// InvoiceLineInput is one requested invoice line.
// UnitPrice defaults to the item's sale price.
type InvoiceLineInput struct {
	StockItemID uuid.UUID        `json:"stock_item_id" binding:"required"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"decimal_gt0"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"omitempty,decimal_gte0"`
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string             `json:"invoice_number" binding:"max=50"`
	CustomerID    uuid.UUID          `json:"customer_id" binding:"required"`
	Items         []InvoiceLineInput `json:"items" binding:"required,min=1,dive"`
	Discount      *decimal.Decimal   `json:"discount" binding:"omitempty,decimal_gte0"`
	DueDate       *time.Time         `json:"due_date"`
	Notes         string             `json:"notes" binding:"max=1000"`
	CreatedBy     uuid.UUID          `json:"-"`
}

// UpdateInvoiceRequest edits a draft. A non-nil Items replaces every line.
type UpdateInvoiceRequest struct {
	Items    []InvoiceLineInput `json:"items" binding:"omitempty,min=1,dive"`
	Discount *decimal.Decimal   `json:"discount" binding:"omitempty,decimal_gte0"`
	DueDate  *time.Time         `json:"due_date"`
	Notes    *string            `json:"notes" binding:"omitempty,max=1000"`
}

// VoidInvoiceRequest carries the reason for voiding
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT ISSUED PARTIALLY_PAID PAID VOID"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents a sales invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	BusinessLineID uuid.UUID             `json:"business_line_id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     uuid.UUID             `json:"customer_id"`
	CustomerName   string                `json:"customer_name"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Discount       decimal.Decimal       `json:"discount"`
	Total          decimal.Decimal       `json:"total"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	Outstanding    decimal.Decimal       `json:"outstanding"`
	Status         string                `json:"status"`
	Overdue        bool                  `json:"overdue"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	VoidedAt       *time.Time            `json:"voided_at,omitempty"`
	VoidReason     string                `json:"void_reason,omitempty"`
	Notes          string                `json:"notes"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain SalesInvoice to InvoiceResponse
func ToInvoiceResponse(inv *trade.SalesInvoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, line := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          line.ID,
			StockItemID: line.StockItemID,
			SKU:         line.SKU,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		BusinessLineID: inv.BusinessLineID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		CustomerName:   inv.CustomerName,
		Items:          items,
		Subtotal:       inv.Subtotal,
		Discount:       inv.Discount,
		Total:          inv.Total,
		PaidAmount:     inv.PaidAmount,
		Outstanding:    inv.Outstanding(),
		Status:         inv.Status.String(),
		Overdue:        inv.IsOverdue(time.Now()),
		IssuedAt:       inv.IssuedAt,
		DueDate:        inv.DueDate,
		VoidedAt:       inv.VoidedAt,
		VoidReason:     inv.VoidReason,
		Notes:          inv.Notes,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// =============================================================================
// Purchase intake DTOs
// =============================================================================

// IntakeLineInput is one received line
type IntakeLineInput struct {
	StockItemID uuid.UUID       `json:"stock_item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"decimal_gte0"`
}

// CreateIntakeRequest represents a request to create a draft purchase intake
type CreateIntakeRequest struct {
	IntakeNumber string            `json:"intake_number" binding:"max=50"`
	VendorID     uuid.UUID         `json:"vendor_id" binding:"required"`
	Items        []IntakeLineInput `json:"items" binding:"required,min=1,dive"`
	Notes        string            `json:"notes" binding:"max=1000"`
	CreatedBy    uuid.UUID         `json:"-"`
}

// IntakeListFilter represents filter options for the intake list
type IntakeListFilter struct {
	Search   string     `form:"search"`
	VendorID string     `form:"vendor_id" binding:"omitempty,uuid"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT RECEIVED CANCELLED"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// IntakeItemResponse represents an intake line in API responses
type IntakeItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Amount      decimal.Decimal `json:"amount"`
}

// IntakeResponse represents a purchase intake in API responses
type IntakeResponse struct {
	ID             uuid.UUID            `json:"id"`
	BusinessLineID uuid.UUID            `json:"business_line_id"`
	IntakeNumber   string               `json:"intake_number"`
	VendorID       uuid.UUID            `json:"vendor_id"`
	VendorName     string               `json:"vendor_name"`
	Items          []IntakeItemResponse `json:"items"`
	Total          decimal.Decimal      `json:"total"`
	Status         string               `json:"status"`
	ReceivedAt     *time.Time           `json:"received_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	Notes          string               `json:"notes"`
	Version        int                  `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToIntakeResponse converts a domain PurchaseIntake to IntakeResponse
func ToIntakeResponse(p *trade.PurchaseIntake) IntakeResponse {
	items := make([]IntakeItemResponse, len(p.Items))
	for i, line := range p.Items {
		items[i] = IntakeItemResponse{
			ID:          line.ID,
			StockItemID: line.StockItemID,
			SKU:         line.SKU,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			Amount:      line.Amount,
		}
	}
	return IntakeResponse{
		ID:             p.ID,
		BusinessLineID: p.BusinessLineID,
		IntakeNumber:   p.IntakeNumber,
		VendorID:       p.VendorID,
		VendorName:     p.VendorName,
		Items:          items,
		Total:          p.Total,
		Status:         string(p.Status),
		ReceivedAt:     p.ReceivedAt,
		CancelledAt:    p.CancelledAt,
		Notes:          p.Notes,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
