package businessline

import (
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
)

// Status represents the status of a business line
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

const codeMaxLength = 32

// Dependency kinds reported for a business line
const (
	DependencyCustomers        = "customers"
	DependencyVendors          = "vendors"
	DependencyStockItems       = "stock_items"
	DependencyStockAdjustments = "stock_adjustments"
	DependencySalesInvoices    = "sales_invoices"
	DependencyPurchaseIntakes  = "purchase_intakes"
	DependencyPayments         = "payments"
	DependencyUsers            = "users"
)

// BusinessLine is a division of the business that partitions data and access.
// It is not itself scoped: it is the scope.
type BusinessLine struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	Description string
	Status      Status
}

// NewBusinessLine creates an active business line
func NewBusinessLine(code, name string) (*BusinessLine, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, codeMaxLength); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	line := &BusinessLine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Status:            StatusActive,
	}
	line.AddDomainEvent(NewCreatedEvent(line))
	return line, nil
}

// Update changes the descriptive fields
func (b *BusinessLine) Update(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.Description = strings.TrimSpace(description)
	b.IncrementVersion()
	b.AddDomainEvent(NewUpdatedEvent(b))
	return nil
}

// Activate re-enables writes in the business line
func (b *BusinessLine) Activate() error {
	if b.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Business line is already active")
	}
	old := b.Status
	b.Status = StatusActive
	b.IncrementVersion()
	b.AddDomainEvent(NewStatusChangedEvent(b, old, b.Status))
	return nil
}

// Deactivate blocks new writes in the business line while keeping its data readable
func (b *BusinessLine) Deactivate() error {
	if b.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Business line is already inactive")
	}
	old := b.Status
	b.Status = StatusInactive
	b.IncrementVersion()
	b.AddDomainEvent(NewStatusChangedEvent(b, old, b.Status))
	return nil
}

// IsActive returns true when the business line accepts writes
func (b *BusinessLine) IsActive() bool {
	return b.Status == StatusActive
}

// EnsureWritable returns an error when the business line is inactive
func (b *BusinessLine) EnsureWritable() error {
	if !b.IsActive() {
		return shared.ErrBusinessLineInactive
	}
	return nil
}

// MarkDeleted records the deletion event
func (b *BusinessLine) MarkDeleted(forced bool, removed shared.Dependencies) {
	b.AddDomainEvent(NewDeletedEvent(b, forced, removed))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Business line name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Business line name cannot exceed 100 characters")
	}
	return nil
}
