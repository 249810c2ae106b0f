package models

import (
	"github.com/bizline/backoffice/internal/domain/businessline"
)

// BusinessLineModel is the persistence model for the BusinessLine aggregate
type BusinessLineModel struct {
	AggregateModel
	Code        string              `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name        string              `gorm:"type:varchar(100);not null"`
	Description string              `gorm:"type:text"`
	Status      businessline.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

func (BusinessLineModel) TableName() string {
	return "business_lines"
}

func (m *BusinessLineModel) ToDomain() *businessline.BusinessLine {
	return &businessline.BusinessLine{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Status:            m.Status,
	}
}

func (m *BusinessLineModel) FromDomain(b *businessline.BusinessLine) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Code = b.Code
	m.Name = b.Name
	m.Description = b.Description
	m.Status = b.Status
}

func BusinessLineModelFromDomain(b *businessline.BusinessLine) *BusinessLineModel {
	m := &BusinessLineModel{}
	m.FromDomain(b)
	return m
}
