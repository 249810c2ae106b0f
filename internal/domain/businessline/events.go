package businessline

import "github.com/bizline/backoffice/internal/domain/shared"

const AggregateTypeBusinessLine = "BusinessLine"

const (
	EventTypeCreated       = "BusinessLineCreated"
	EventTypeUpdated       = "BusinessLineUpdated"
	EventTypeStatusChanged = "BusinessLineStatusChanged"
	EventTypeDeleted       = "BusinessLineDeleted"
)

// CreatedEvent is published when a business line is created
type CreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

func NewCreatedEvent(b *BusinessLine) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreated, AggregateTypeBusinessLine, b.ID, b.ID),
		Code:            b.Code,
		Name:            b.Name,
	}
}

// UpdatedEvent is published when descriptive fields change
type UpdatedEvent struct {
	shared.BaseDomainEvent
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func NewUpdatedEvent(b *BusinessLine) *UpdatedEvent {
	return &UpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUpdated, AggregateTypeBusinessLine, b.ID, b.ID),
		Name:            b.Name,
		Description:     b.Description,
	}
}

// StatusChangedEvent is published on activation or deactivation
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

func NewStatusChangedEvent(b *BusinessLine, oldStatus, newStatus Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStatusChanged, AggregateTypeBusinessLine, b.ID, b.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// DeletedEvent is published after a business line is removed
type DeletedEvent struct {
	shared.BaseDomainEvent
	Code    string              `json:"code"`
	Forced  bool                `json:"forced"`
	Removed shared.Dependencies `json:"removed,omitempty"`
}

func NewDeletedEvent(b *BusinessLine, forced bool, removed shared.Dependencies) *DeletedEvent {
	return &DeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeleted, AggregateTypeBusinessLine, b.ID, b.ID),
		Code:            b.Code,
		Forced:          forced,
		Removed:         removed,
	}
}
