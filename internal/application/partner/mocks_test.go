package partner

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, businessLineID uuid.UUID, code string) (*partner.Customer, error) {
	args := m.Called(ctx, businessLineID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, businessLineID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return m.Called(ctx, businessLineID, id).Error(0)
}

func (m *MockCustomerRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Dependencies), args.Error(1)
}

// MockVendorRepository is a mock implementation of VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*partner.Vendor, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVendorRepository) ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, businessLineID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) SaveWithLock(ctx context.Context, vendor *partner.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return m.Called(ctx, businessLineID, id).Error(0)
}

func (m *MockVendorRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Dependencies), args.Error(1)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
