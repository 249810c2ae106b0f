package models

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the version used for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds the domain base, remembering the stored version
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.RestoreAggregateRoot(m.BaseModel.ToDomain(), m.Version)
}

// ScopedAggregateModel holds the fields of aggregates owned by a business line
type ScopedAggregateModel struct {
	AggregateModel
	BusinessLineID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainScoped populates ScopedAggregateModel from domain ScopedAggregateRoot
func (m *ScopedAggregateModel) FromDomainScoped(s shared.ScopedAggregateRoot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.BusinessLineID = s.BusinessLineID
	m.CreatedBy = s.CreatedBy
}

// ToDomainScoped rebuilds the domain ScopedAggregateRoot
func (m *ScopedAggregateModel) ToDomainScoped() shared.ScopedAggregateRoot {
	return shared.ScopedAggregateRoot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BusinessLineID:    m.BusinessLineID,
		CreatedBy:         m.CreatedBy,
	}
}

// All returns every model, in dependency order, for schema creation in tests
func All() []any {
	return []any{
		&BusinessLineModel{},
		&UserModel{},
		&UserBusinessLineModel{},
		&CustomerModel{},
		&VendorModel{},
		&StockItemModel{},
		&StockAdjustmentModel{},
		&SalesInvoiceModel{},
		&SalesInvoiceItemModel{},
		&PurchaseIntakeModel{},
		&PurchaseIntakeItemModel{},
		&PaymentModel{},
		&PaymentStatusChangeModel{},
	}
}
