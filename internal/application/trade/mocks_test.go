package trade

import (
	"context"
	"testing"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockPurchaseIntakeRepository is a mock implementation of PurchaseIntakeRepository
type MockPurchaseIntakeRepository struct {
	mock.Mock
}

func (m *MockPurchaseIntakeRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*trade.PurchaseIntake, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseIntake), args.Error(1)
}

func (m *MockPurchaseIntakeRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]trade.PurchaseIntake, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]trade.PurchaseIntake), args.Error(1)
}

func (m *MockPurchaseIntakeRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseIntakeRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, businessLineID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseIntakeRepository) Save(ctx context.Context, intake *trade.PurchaseIntake) error {
	return m.Called(ctx, intake).Error(0)
}

func (m *MockPurchaseIntakeRepository) SaveWithLock(ctx context.Context, intake *trade.PurchaseIntake) error {
	return m.Called(ctx, intake).Error(0)
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

// MockStockItemRepository is a mock implementation of StockItemRepository
type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByIDs(ctx context.Context, businessLineID uuid.UUID, ids []uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, businessLineID, ids)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockItemRepository) FindLowStock(ctx context.Context, businessLineID uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, businessLineID)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) ExistsBySKU(ctx context.Context, businessLineID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, businessLineID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockStockItemRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return m.Called(ctx, businessLineID, id).Error(0)
}

func (m *MockStockItemRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	args := m.Called(ctx, businessLineID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Dependencies), args.Error(1)
}

// MockStockAdjustmentRepository is a mock implementation of StockAdjustmentRepository
type MockStockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockStockAdjustmentRepository) Create(ctx context.Context, adjustments ...*inventory.StockAdjustment) error {
	return m.Called(ctx, adjustments).Error(0)
}

func (m *MockStockAdjustmentRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).([]inventory.StockAdjustment), args.Error(1)
}

func (m *MockStockAdjustmentRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessLineID, filter)
	return args.Get(0).(int64), args.Error(1)
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

func (p *capturePublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func stockedItem(t *testing.T, lineID uuid.UUID, sku string, qty, cost, price int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(lineID, sku, "Item "+sku, "pcs")
	require.NoError(t, err)
	require.NoError(t, item.Update(item.Name, item.Unit, decimal.Zero, decimal.NewFromInt(price)))
	if qty > 0 {
		_, err = item.Receive(decimal.NewFromInt(qty), decimal.NewFromInt(cost), "GRN-1")
		require.NoError(t, err)
	}
	item.ClearDomainEvents()
	return item
}
