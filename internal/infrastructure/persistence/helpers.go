package persistence

import (
	"errors"
	"fmt"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translateError maps record-not-found to the domain error and wraps everything else
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewDomainError(shared.ErrNotFound.Code, resource+" not found")
	}
	return fmt.Errorf("%s query failed: %w", resource, err)
}

// updateWithVersion writes every column of model when the stored version still
// equals expected, otherwise it reports a concurrency conflict.
func updateWithVersion(db *gorm.DB, model any, id uuid.UUID, expected int, resource string) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code,
			"The "+resource+" record has been modified by another transaction")
	}
	return nil
}

// deleteScoped removes one row of a business line
func deleteScoped(db *gorm.DB, model any, businessLineID, id uuid.UUID, resource string) error {
	result := db.Where("business_line_id = ? AND id = ?", businessLineID, id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, resource+" not found")
	}
	return nil
}

// dateRange restricts column to the filter's From/To bounds
func dateRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}

func count(db *gorm.DB, model any, where string, args ...any) (int64, error) {
	var n int64
	if err := db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
