package identity

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence for users and their business line assignments
type UserRepository interface {
	// FindByID loads a user with its business line assignments
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll lists users. A non-nil business line restricts the list to users assigned to it.
	FindAll(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) (int64, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role Role) (int64, error)

	// Save inserts or updates the user and replaces its business line assignments
	Save(ctx context.Context, user *User) error
	SaveWithLock(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
