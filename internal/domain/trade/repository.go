package trade

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesInvoiceRepository defines persistence for sales invoices.
// Loaded invoices always carry their items.
type SalesInvoiceRepository interface {
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*SalesInvoice, error)
	FindByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (*SalesInvoice, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)
	FindUnpaidByCustomer(ctx context.Context, businessLineID, customerID uuid.UUID) ([]SalesInvoice, error)
	ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error)

	// Save inserts or updates the invoice and replaces its items
	Save(ctx context.Context, invoice *SalesInvoice) error
	SaveWithLock(ctx context.Context, invoice *SalesInvoice) error
	Delete(ctx context.Context, businessLineID, id uuid.UUID) error
}

// PurchaseIntakeRepository defines persistence for purchase intakes
type PurchaseIntakeRepository interface {
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*PurchaseIntake, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]PurchaseIntake, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, intake *PurchaseIntake) error
	SaveWithLock(ctx context.Context, intake *PurchaseIntake) error
}
