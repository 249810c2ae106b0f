package finance

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository defines persistence for payments and their status history
type PaymentRepository interface {
	// FindByID loads a payment with its recorded history
	FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]Payment, error)
	Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error)

	// FindForTimeline loads every payment matching the filter, unpaginated, with history
	FindForTimeline(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindPendingCheques lists pending cheques, optionally only those dated before dueBefore
	FindPendingCheques(ctx context.Context, businessLineID uuid.UUID, dueBefore *time.Time) ([]Payment, error)

	// FindOverdueCheques lists pending cheques of every business line dated before the cutoff
	FindOverdueCheques(ctx context.Context, cutoff time.Time) ([]Payment, error)

	ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error)

	// Save inserts or updates the payment and appends unsaved history rows
	Save(ctx context.Context, payment *Payment) error
	SaveWithLock(ctx context.Context, payment *Payment) error
}
