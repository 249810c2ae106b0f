package partner

import (
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a supplier of stock. PayableBalance is what the business owes it.
type Vendor struct {
	shared.ScopedAggregateRoot
	Code           string
	Name           string
	Contact        Contact
	TaxID          string
	Notes          string
	PayableBalance decimal.Decimal
	Status         PartnerStatus
}

// NewVendor creates an active vendor with nothing owed
func NewVendor(businessLineID uuid.UUID, code, name string) (*Vendor, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, codeMaxLength); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	vendor := &Vendor{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		Code:                code,
		Name:                name,
		PayableBalance:      decimal.Zero,
		Status:              PartnerStatusActive,
	}
	vendor.AddDomainEvent(NewVendorCreatedEvent(vendor))
	return vendor, nil
}

func (v *Vendor) Update(name, taxID, notes string) error {
	name = strings.TrimSpace(name)
	if err := validatePartnerName(name); err != nil {
		return err
	}
	if len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	v.Name = name
	v.TaxID = strings.TrimSpace(taxID)
	v.Notes = notes
	v.IncrementVersion()
	return nil
}

func (v *Vendor) SetContact(contact Contact) error {
	contact = contact.Normalize()
	if err := contact.Validate(); err != nil {
		return err
	}
	v.Contact = contact
	v.IncrementVersion()
	return nil
}

// AddPayable increases what is owed to the vendor, e.g. on goods received
func (v *Vendor) AddPayable(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payable amount must be positive")
	}
	v.PayableBalance = v.PayableBalance.Add(amount)
	v.IncrementVersion()
	v.AddDomainEvent(NewVendorPayableChangedEvent(v, amount))
	return nil
}

// ReducePayable records a payment made to the vendor
func (v *Vendor) ReducePayable(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(v.PayableBalance) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the payable balance of "+v.PayableBalance.StringFixed(2))
	}
	v.PayableBalance = v.PayableBalance.Sub(amount)
	v.IncrementVersion()
	v.AddDomainEvent(NewVendorPayableChangedEvent(v, amount.Neg()))
	return nil
}

func (v *Vendor) Activate() error {
	if v.Status == PartnerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Vendor is already active")
	}
	v.Status = PartnerStatusActive
	v.IncrementVersion()
	return nil
}

func (v *Vendor) Deactivate() error {
	if v.Status == PartnerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Vendor is already inactive")
	}
	v.Status = PartnerStatusInactive
	v.IncrementVersion()
	return nil
}

func (v *Vendor) IsActive() bool {
	return v.Status == PartnerStatusActive
}

// MarkDeleted records the removal of the vendor so that listeners can react
func (v *Vendor) MarkDeleted() {
	v.AddDomainEvent(NewVendorDeletedEvent(v))
}
