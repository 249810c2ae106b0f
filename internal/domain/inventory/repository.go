package inventory

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines persistence for stock items
type StockItemRepository interface {
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*StockItem, error)
	FindByIDs(ctx context.Context, businessLineID uuid.UUID, ids []uuid.UUID) ([]StockItem, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]StockItem, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)

	// FindLowStock returns active items whose quantity is at or below their reorder level
	FindLowStock(ctx context.Context, businessLineID uuid.UUID) ([]StockItem, error)

	ExistsBySKU(ctx context.Context, businessLineID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, item *StockItem) error
	SaveWithLock(ctx context.Context, item *StockItem) error
	Delete(ctx context.Context, businessLineID, id uuid.UUID) error

	// CountDependencies counts adjustments, invoice lines and intake lines referencing the item
	CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error)
}

// StockAdjustmentRepository stores the append-only adjustment ledger
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustments ...*StockAdjustment) error
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)
}

// Dependency kinds reported for stock items
const (
	DependencyAdjustments  = "stock_adjustments"
	DependencyInvoiceLines = "sales_invoice_items"
	DependencyIntakeLines  = "purchase_intake_items"
)
