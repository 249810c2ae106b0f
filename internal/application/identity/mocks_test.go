package identity

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockBusinessLineRepository is a mock implementation of businessline.Repository
type MockBusinessLineRepository struct {
	mock.Mock
}

func (m *MockBusinessLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*businessline.BusinessLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessline.BusinessLine), args.Error(1)
}

func (m *MockBusinessLineRepository) FindByCode(ctx context.Context, code string) (*businessline.BusinessLine, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessline.BusinessLine), args.Error(1)
}

func (m *MockBusinessLineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]businessline.BusinessLine, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]businessline.BusinessLine), args.Error(1)
}

func (m *MockBusinessLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]businessline.BusinessLine, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]businessline.BusinessLine), args.Error(1)
}

func (m *MockBusinessLineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBusinessLineRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBusinessLineRepository) Save(ctx context.Context, line *businessline.BusinessLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockBusinessLineRepository) SaveWithLock(ctx context.Context, line *businessline.BusinessLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockBusinessLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBusinessLineRepository) CountDependencies(ctx context.Context, id uuid.UUID) (shared.Dependencies, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(shared.Dependencies), args.Error(1)
}

func (m *MockBusinessLineRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (shared.Dependencies, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(shared.Dependencies), args.Error(1)
}

type stubTokenIssuer struct {
	err error
}

func (s stubTokenIssuer) GenerateAccessToken(user *identity.User) (*auth.AccessToken, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.AccessToken{
		AccessToken: "token-" + user.Username,
		ExpiresAt:   time.Now().Add(time.Hour),
		TokenType:   "Bearer",
	}, nil
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// plainUser builds a user without hashing a password
func plainUser(username string, role identity.Role) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Role:              role,
		BusinessLineIDs:   []uuid.UUID{},
		Status:            identity.UserStatusActive,
	}
}

var (
	_ identity.UserRepository = (*MockUserRepository)(nil)
	_ businessline.Repository = (*MockBusinessLineRepository)(nil)
	_ TokenIssuer             = stubTokenIssuer{}
)

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
