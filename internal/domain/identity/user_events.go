package identity

import (
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserCreatedEvent is published when a user is created.
// Users are not scoped, so the business line of the event is nil.
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, uuid.Nil),
		UserID:          u.ID,
		Username:        u.Username,
		Role:            u.Role,
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	OldRole Role      `json:"old_role"`
	NewRole Role      `json:"new_role"`
}

func NewUserRoleChangedEvent(u *User, oldRole Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, u.ID, uuid.Nil),
		UserID:          u.ID,
		OldRole:         oldRole,
		NewRole:         u.Role,
	}
}
