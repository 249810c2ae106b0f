package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides versioning and pending events
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	persisted    int
	domainEvents []DomainEvent
}

// RestoreAggregateRoot rebuilds the base of an aggregate read from storage
func RestoreAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: entity,
		Version:    version,
		persisted:  version,
	}
}

// PersistedVersion returns the version last read from or written to storage.
// It is zero for aggregates that were never stored.
func (a *BaseAggregateRoot) PersistedVersion() int {
	return a.persisted
}

// MarkPersisted records that the current version has been stored
func (a *BaseAggregateRoot) MarkPersisted() {
	a.persisted = a.Version
}

// GetVersion returns the aggregate version used for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version and the modification time
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// ScopedAggregateRoot is an aggregate root that belongs to one business line.
// All reads and writes of scoped aggregates are filtered by BusinessLineID.
type ScopedAggregateRoot struct {
	BaseAggregateRoot
	BusinessLineID uuid.UUID
	CreatedBy      *uuid.UUID
}

// NewScopedAggregateRoot creates an aggregate root owned by the given business line
func NewScopedAggregateRoot(businessLineID uuid.UUID) ScopedAggregateRoot {
	return ScopedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BusinessLineID:    businessLineID,
	}
}

// SetCreatedBy records the user who created the aggregate
func (s *ScopedAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	s.CreatedBy = &userID
}

// BelongsTo reports whether the aggregate is owned by the business line
func (s *ScopedAggregateRoot) BelongsTo(businessLineID uuid.UUID) bool {
	return s.BusinessLineID == businessLineID
}
