package finance

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) FindForTimeline(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingCheques(ctx context.Context, businessLineID uuid.UUID, dueBefore *time.Time) ([]finance.Payment, error) {
	args := m.Called(ctx, businessLineID, dueBefore)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindOverdueCheques(ctx context.Context, cutoff time.Time) ([]finance.Payment, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, businessLineID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

// MockSalesInvoiceRepository is a mock implementation of SalesInvoiceRepository
type MockSalesInvoiceRepository struct {
	mock.Mock
}

func (m *MockSalesInvoiceRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, businessLineID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindUnpaidByCustomer(ctx context.Context, businessLineID, customerID uuid.UUID) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, businessLineID, customerID)
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, businessLineID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockSalesInvoiceRepository) Save(ctx context.Context, invoice *trade.SalesInvoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockSalesInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.SalesInvoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockSalesInvoiceRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return m.Called(ctx, businessLineID, id).Error(0)
}

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

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

var (
	_ finance.PaymentRepository    = (*MockPaymentRepository)(nil)
	_ trade.SalesInvoiceRepository = (*MockSalesInvoiceRepository)(nil)
	_ partner.CustomerRepository   = (*MockCustomerRepository)(nil)
	_ partner.VendorRepository     = (*MockVendorRepository)(nil)
)
