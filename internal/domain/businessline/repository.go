package businessline

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for business lines
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessLine, error)
	FindByCode(ctx context.Context, code string) (*BusinessLine, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]BusinessLine, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BusinessLine, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, line *BusinessLine) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, line *BusinessLine) error

	Delete(ctx context.Context, id uuid.UUID) error

	// CountDependencies counts every record scoped to the business line
	CountDependencies(ctx context.Context, id uuid.UUID) (shared.Dependencies, error)

	// DeleteCascade removes the business line and all records scoped to it.
	// It returns the number of rows removed per dependency kind.
	DeleteCascade(ctx context.Context, id uuid.UUID) (shared.Dependencies, error)
}
