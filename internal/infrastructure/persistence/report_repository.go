package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/report"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// billedStatuses are the invoice states that count as sales
var billedStatuses = []trade.InvoiceStatus{
	trade.InvoiceStatusIssued,
	trade.InvoiceStatusPartiallyPaid,
	trade.InvoiceStatusPaid,
}

// GormReportRepository implements report.Repository with read-only queries
type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) SalesSummary(ctx context.Context, businessLineID uuid.UUID, period report.Period) (*report.SalesSummary, error) {
	var rows []struct {
		IssuedAt   time.Time
		Subtotal   decimal.Decimal
		Discount   decimal.Decimal
		Total      decimal.Decimal
		PaidAmount decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&models.SalesInvoiceModel{}).
		Select("issued_at, subtotal, discount, total, paid_amount").
		Where("business_line_id = ? AND status IN ?", businessLineID, billedStatuses).
		Where("issued_at >= ? AND issued_at <= ?", period.From, period.To).
		Order("issued_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	summary := &report.SalesSummary{Period: period, Daily: make([]report.DailySales, 0)}
	for _, row := range rows {
		summary.InvoiceCount++
		summary.Subtotal = summary.Subtotal.Add(row.Subtotal)
		summary.Discount = summary.Discount.Add(row.Discount)
		summary.Total = summary.Total.Add(row.Total)
		summary.Paid = summary.Paid.Add(row.PaidAmount)

		day := row.IssuedAt.UTC().Format("2006-01-02")
		n := len(summary.Daily)
		if n == 0 || summary.Daily[n-1].Date != day {
			summary.Daily = append(summary.Daily, report.DailySales{Date: day})
			n++
		}
		summary.Daily[n-1].InvoiceCount++
		summary.Daily[n-1].Total = summary.Daily[n-1].Total.Add(row.Total)
	}
	summary.Outstanding = summary.Total.Sub(summary.Paid)
	return summary, nil
}

func (r *GormReportRepository) Receivables(ctx context.Context, businessLineID uuid.UUID) (*report.Receivables, error) {
	db := conn(ctx, r.db)

	var unpaid []struct {
		CustomerID     uuid.UUID
		UnpaidInvoices int64
		UnpaidAmount   decimal.Decimal
	}
	err := db.Model(&models.SalesInvoiceModel{}).
		Select("customer_id, COUNT(*) AS unpaid_invoices, COALESCE(SUM(total - paid_amount), 0) AS unpaid_amount").
		Where("business_line_id = ? AND status IN ?", businessLineID,
			[]trade.InvoiceStatus{trade.InvoiceStatusIssued, trade.InvoiceStatusPartiallyPaid}).
		Group("customer_id").
		Scan(&unpaid).Error
	if err != nil {
		return nil, fmt.Errorf("receivables: %w", err)
	}
	ids := make([]uuid.UUID, len(unpaid))
	byCustomer := make(map[uuid.UUID]int, len(unpaid))
	for i, u := range unpaid {
		ids[i] = u.CustomerID
		byCustomer[u.CustomerID] = i
	}

	var customers []models.CustomerModel
	query := db.Where("business_line_id = ?", businessLineID)
	if len(ids) > 0 {
		query = query.Where("outstanding_credit > 0 OR id IN ?", ids)
	} else {
		query = query.Where("outstanding_credit > 0")
	}
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("receivables: %w", err)
	}

	out := &report.Receivables{Customers: make([]report.CustomerExposure, 0, len(customers))}
	for i := range customers {
		c := customers[i].ToDomain()
		line := report.CustomerExposure{
			CustomerID:        c.ID,
			Code:              c.Code,
			Name:              c.Name,
			CreditLimit:       c.CreditLimit,
			OutstandingCredit: c.OutstandingCredit,
			AvailableCredit:   c.AvailableCredit(),
		}
		if idx, ok := byCustomer[c.ID]; ok {
			line.UnpaidInvoices = unpaid[idx].UnpaidInvoices
			line.UnpaidAmount = unpaid[idx].UnpaidAmount
		}
		if c.CreditLimit.IsPositive() && c.OutstandingCredit.GreaterThanOrEqual(c.CreditLimit) {
			out.CustomersAtLimit++
		}
		out.TotalCredit = out.TotalCredit.Add(line.OutstandingCredit)
		out.TotalUnpaid = out.TotalUnpaid.Add(line.UnpaidAmount)
		out.Customers = append(out.Customers, line)
	}
	out.TotalExposure = out.TotalCredit.Add(out.TotalUnpaid)
	return out, nil
}

func (r *GormReportRepository) StockValuation(ctx context.Context, businessLineID uuid.UUID) (*report.StockValuation, error) {
	var rows []models.StockItemModel
	err := conn(ctx, r.db).
		Where("business_line_id = ? AND status = ?", businessLineID, inventory.ItemStatusActive).
		Order("sku ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}

	out := &report.StockValuation{
		Items:    make([]report.StockValuationLine, 0, len(rows)),
		LowStock: make([]report.StockValuationLine, 0),
	}
	for i := range rows {
		item := rows[i].ToDomain()
		line := report.StockValuationLine{
			StockItemID:  item.ID,
			SKU:          item.SKU,
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			Value:        item.StockValue(),
			ReorderLevel: item.ReorderLevel,
			LowStock:     item.IsLowStock(),
		}
		out.Items = append(out.Items, line)
		out.TotalValue = out.TotalValue.Add(line.Value)
		if line.LowStock {
			out.LowStock = append(out.LowStock, line)
		}
	}
	out.ItemCount = int64(len(out.Items))
	return out, nil
}

// PaymentsSummary groups the period's payments. TotalAmount leaves out
// bounced and cancelled payments.
func (r *GormReportRepository) PaymentsSummary(ctx context.Context, businessLineID uuid.UUID, period report.Period) (*report.PaymentsSummary, error) {
	var rows []report.PaymentBreakdown
	err := conn(ctx, r.db).Model(&models.PaymentModel{}).
		Select("direction, method, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("business_line_id = ?", businessLineID).
		Where("paid_at >= ? AND paid_at <= ?", period.From, period.To).
		Group("direction, method, status").
		Order("direction ASC, method ASC, status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("payments summary: %w", err)
	}
	if rows == nil {
		rows = make([]report.PaymentBreakdown, 0)
	}

	out := &report.PaymentsSummary{Period: period, Rows: rows}
	for _, row := range rows {
		out.TotalCount += row.Count
		status := finance.PaymentStatus(row.Status)
		if status == finance.PaymentStatusBounced || status == finance.PaymentStatusCancelled {
			continue
		}
		out.TotalAmount = out.TotalAmount.Add(row.Amount)
	}
	return out, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
