// Package report holds the read models of the reporting screens.
// They are computed from the write-side tables and never persisted.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is an inclusive date range
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Key renders the period for cache keys
func (p Period) Key() string {
	return p.From.UTC().Format("20060102") + "-" + p.To.UTC().Format("20060102")
}

// DailySales is one point of the sales series
type DailySales struct {
	Date         string          `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	Total        decimal.Decimal `json:"total"`
}

// SalesSummary totals issued invoices of a period
type SalesSummary struct {
	Period
	InvoiceCount int64           `json:"invoice_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Daily        []DailySales    `json:"daily"`
}

// CustomerExposure is the credit and receivable position of one customer
type CustomerExposure struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	UnpaidInvoices    int64           `json:"unpaid_invoices"`
	UnpaidAmount      decimal.Decimal `json:"unpaid_amount"`
}

// Receivables lists customers owing money or holding credit
type Receivables struct {
	Customers        []CustomerExposure `json:"customers"`
	TotalCredit      decimal.Decimal    `json:"total_credit"`
	TotalUnpaid      decimal.Decimal    `json:"total_unpaid"`
	TotalExposure    decimal.Decimal    `json:"total_exposure"`
	CustomersAtLimit int64              `json:"customers_at_limit"`
}

// StockValuationLine values one stock item
type StockValuationLine struct {
	StockItemID  uuid.UUID       `json:"stock_item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Value        decimal.Decimal `json:"value"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
}

// StockValuation is the value of active stock at moving average cost
type StockValuation struct {
	Items      []StockValuationLine `json:"items"`
	TotalValue decimal.Decimal      `json:"total_value"`
	ItemCount  int64                `json:"item_count"`
	LowStock   []StockValuationLine `json:"low_stock"`
}

// PaymentBreakdown is one method/status cell of the payments summary
type PaymentBreakdown struct {
	Direction string          `json:"direction"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	Count     int64           `json:"count"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentsSummary groups payments of a period by method and status
type PaymentsSummary struct {
	Period
	Rows        []PaymentBreakdown `json:"rows"`
	TotalCount  int64              `json:"total_count"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

// Dashboard bundles the four reports
type Dashboard struct {
	Sales       *SalesSummary    `json:"sales"`
	Receivables *Receivables     `json:"receivables"`
	Stock       *StockValuation  `json:"stock"`
	Payments    *PaymentsSummary `json:"payments"`
}

// Repository runs the read-model queries of one business line
type Repository interface {
	SalesSummary(ctx context.Context, businessLineID uuid.UUID, period Period) (*SalesSummary, error)
	Receivables(ctx context.Context, businessLineID uuid.UUID) (*Receivables, error)
	StockValuation(ctx context.Context, businessLineID uuid.UUID) (*StockValuation, error)
	PaymentsSummary(ctx context.Context, businessLineID uuid.UUID, period Period) (*PaymentsSummary, error)
}
