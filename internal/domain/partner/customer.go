package partner

import (
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a customer account inside a business line.
// OutstandingCredit is the amount currently owed on credit payments that
// have not been settled yet; it can never exceed CreditLimit.
type Customer struct {
	shared.ScopedAggregateRoot
	Code              string
	Name              string
	Contact           Contact
	TaxID             string
	Notes             string
	CreditLimit       decimal.Decimal
	OutstandingCredit decimal.Decimal
	Status            PartnerStatus
}

// NewCustomer creates an active customer with no credit limit
func NewCustomer(businessLineID uuid.UUID, code, name string) (*Customer, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, codeMaxLength); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		Code:                code,
		Name:                name,
		CreditLimit:         decimal.Zero,
		OutstandingCredit:   decimal.Zero,
		Status:              PartnerStatusActive,
	}
	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))
	return customer, nil
}

// Update changes the name and free-text fields
func (c *Customer) Update(name, taxID, notes string) error {
	name = strings.TrimSpace(name)
	if err := validatePartnerName(name); err != nil {
		return err
	}
	if len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	c.Name = name
	c.TaxID = strings.TrimSpace(taxID)
	c.Notes = notes
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

// SetContact replaces the contact details
func (c *Customer) SetContact(contact Contact) error {
	contact = contact.Normalize()
	if err := contact.Validate(); err != nil {
		return err
	}
	c.Contact = contact
	c.IncrementVersion()
	return nil
}

// SetCreditLimit changes the credit limit.
// The limit cannot drop below what the customer already owes on credit.
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	if limit.LessThan(c.OutstandingCredit) {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be lower than the outstanding credit of "+c.OutstandingCredit.StringFixed(2))
	}
	old := c.CreditLimit
	c.CreditLimit = limit
	c.IncrementVersion()
	if !old.Equal(limit) {
		c.AddDomainEvent(NewCustomerCreditChangedEvent(c, "LIMIT_CHANGED", limit.Sub(old)))
	}
	return nil
}

// AvailableCredit returns how much more the customer may buy on credit
func (c *Customer) AvailableCredit() decimal.Decimal {
	available := c.CreditLimit.Sub(c.OutstandingCredit)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// CreditUtilization returns outstanding credit as a percentage of the limit
func (c *Customer) CreditUtilization() decimal.Decimal {
	if c.CreditLimit.IsZero() {
		return decimal.Zero
	}
	return c.OutstandingCredit.Div(c.CreditLimit).Mul(decimal.NewFromInt(100)).Round(2)
}

// CanChargeCredit reports whether amount fits inside the available credit
func (c *Customer) CanChargeCredit(amount decimal.Decimal) bool {
	return c.OutstandingCredit.Add(amount).LessThanOrEqual(c.CreditLimit)
}

// ChargeCredit records a purchase on credit
func (c *Customer) ChargeCredit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if !c.IsActive() {
		return shared.NewDomainError("CUSTOMER_INACTIVE", "Inactive customers cannot buy on credit")
	}
	if !c.CanChargeCredit(amount) {
		return shared.NewDomainErrorWithDetails(
			shared.ErrCreditLimitExceeded.Code,
			"Credit limit exceeded: available "+c.AvailableCredit().StringFixed(2)+", requested "+amount.StringFixed(2),
			map[string]string{
				"credit_limit":       c.CreditLimit.StringFixed(2),
				"outstanding_credit": c.OutstandingCredit.StringFixed(2),
				"requested":          amount.StringFixed(2),
			},
		)
	}
	c.OutstandingCredit = c.OutstandingCredit.Add(amount)
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, "CHARGED", amount))
	return nil
}

// ReleaseCredit reduces the outstanding credit after settlement or cancellation
func (c *Customer) ReleaseCredit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if amount.GreaterThan(c.OutstandingCredit) {
		return shared.NewDomainError("INVALID_AMOUNT", "Released amount exceeds outstanding credit")
	}
	c.OutstandingCredit = c.OutstandingCredit.Sub(amount)
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, "RELEASED", amount.Neg()))
	return nil
}

func (c *Customer) Activate() error {
	if c.Status == PartnerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	c.Status = PartnerStatusActive
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, PartnerStatusInactive, PartnerStatusActive))
	return nil
}

func (c *Customer) Deactivate() error {
	if c.Status == PartnerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	c.Status = PartnerStatusInactive
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, PartnerStatusActive, PartnerStatusInactive))
	return nil
}

func (c *Customer) IsActive() bool {
	return c.Status == PartnerStatusActive
}

// MarkDeleted records the removal of the customer so that listeners can react
func (c *Customer) MarkDeleted() {
	c.AddDomainEvent(NewCustomerDeletedEvent(c))
}
