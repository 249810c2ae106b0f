package partner

import (
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeVendor   = "Vendor"
)

const (
	EventTypeCustomerCreated       = "CustomerCreated"
	EventTypeCustomerUpdated       = "CustomerUpdated"
	EventTypeCustomerStatusChanged = "CustomerStatusChanged"
	EventTypeCustomerCreditChanged = "CustomerCreditChanged"
	EventTypeCustomerDeleted       = "CustomerDeleted"
	EventTypeVendorCreated         = "VendorCreated"
	EventTypeVendorPayableChanged  = "VendorPayableChanged"
	EventTypeVendorDeleted         = "VendorDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.BusinessLineID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerUpdatedEvent is published when a customer's details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID, c.BusinessLineID),
		CustomerID:      c.ID,
		Name:            c.Name,
	}
}

// CustomerStatusChangedEvent is published on activation or deactivation
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID     `json:"customer_id"`
	OldStatus  PartnerStatus `json:"old_status"`
	NewStatus  PartnerStatus `json:"new_status"`
}

func NewCustomerStatusChangedEvent(c *Customer, oldStatus, newStatus PartnerStatus) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, c.ID, c.BusinessLineID),
		CustomerID:      c.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// CustomerCreditChangedEvent is published whenever the credit limit or the
// outstanding credit moves. Delta is signed.
type CustomerCreditChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID        uuid.UUID       `json:"customer_id"`
	Reason            string          `json:"reason"`
	Delta             decimal.Decimal `json:"delta"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
}

func NewCustomerCreditChangedEvent(c *Customer, reason string, delta decimal.Decimal) *CustomerCreditChangedEvent {
	return &CustomerCreditChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeCustomerCreditChanged, AggregateTypeCustomer, c.ID, c.BusinessLineID),
		CustomerID:        c.ID,
		Reason:            reason,
		Delta:             delta,
		CreditLimit:       c.CreditLimit,
		OutstandingCredit: c.OutstandingCredit,
	}
}

// CustomerDeletedEvent is published after an unreferenced customer is removed
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
}

func NewCustomerDeletedEvent(c *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, c.ID, c.BusinessLineID),
		CustomerID:      c.ID,
		Code:            c.Code,
	}
}

// VendorCreatedEvent is published when a vendor is created
type VendorCreatedEvent struct {
	shared.BaseDomainEvent
	VendorID uuid.UUID `json:"vendor_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

func NewVendorCreatedEvent(v *Vendor) *VendorCreatedEvent {
	return &VendorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorCreated, AggregateTypeVendor, v.ID, v.BusinessLineID),
		VendorID:        v.ID,
		Code:            v.Code,
		Name:            v.Name,
	}
}

// VendorPayableChangedEvent is published when the payable balance moves
type VendorPayableChangedEvent struct {
	shared.BaseDomainEvent
	VendorID       uuid.UUID       `json:"vendor_id"`
	Delta          decimal.Decimal `json:"delta"`
	PayableBalance decimal.Decimal `json:"payable_balance"`
}

func NewVendorPayableChangedEvent(v *Vendor, delta decimal.Decimal) *VendorPayableChangedEvent {
	return &VendorPayableChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorPayableChanged, AggregateTypeVendor, v.ID, v.BusinessLineID),
		VendorID:        v.ID,
		Delta:           delta,
		PayableBalance:  v.PayableBalance,
	}
}

// VendorDeletedEvent is published after an unreferenced vendor is removed
type VendorDeletedEvent struct {
	shared.BaseDomainEvent
	VendorID uuid.UUID `json:"vendor_id"`
	Code     string    `json:"code"`
}

func NewVendorDeletedEvent(v *Vendor) *VendorDeletedEvent {
	return &VendorDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorDeleted, AggregateTypeVendor, v.ID, v.BusinessLineID),
		VendorID:        v.ID,
		Code:            v.Code,
	}
}
