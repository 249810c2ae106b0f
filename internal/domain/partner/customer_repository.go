package partner

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines persistence for customers.
// Every method is scoped to a business line.
type CustomerRepository interface {
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, businessLineID uuid.UUID, code string) (*Customer, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, businessLineID, id uuid.UUID) error

	// CountDependencies counts invoices and payments referencing the customer
	CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error)
}

// VendorRepository defines persistence for vendors
type VendorRepository interface {
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]Vendor, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, vendor *Vendor) error
	SaveWithLock(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, businessLineID, id uuid.UUID) error

	// CountDependencies counts purchase intakes and payments referencing the vendor
	CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error)
}

// Dependency kinds reported for partners
const (
	DependencySalesInvoices   = "sales_invoices"
	DependencyPurchaseIntakes = "purchase_intakes"
	DependencyPayments        = "payments"
)
