package models

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	Username     string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName  string              `gorm:"type:varchar(200)"`
	Email        string              `gorm:"type:varchar(200)"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Role         identity.Role       `gorm:"type:varchar(20);not null"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// UserBusinessLineModel assigns a user to a business line
type UserBusinessLineModel struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessLineID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (UserBusinessLineModel) TableName() string {
	return "user_business_lines"
}

func (m *UserModel) ToDomain(lines []uuid.UUID) *identity.User {
	if lines == nil {
		lines = make([]uuid.UUID, 0)
	}
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		DisplayName:       m.DisplayName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		BusinessLineIDs:   lines,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
	}
}

func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.DisplayName = u.DisplayName
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
