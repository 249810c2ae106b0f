package persistence

import (
	"context"
	"fmt"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := conn(ctx, r.db).First(&model, "business_line_id = ? AND id = ?", businessLineID, id).Error; err != nil {
		return nil, translateError(err, "Customer")
	}
	return model.ToDomain(), nil
}

func (r *GormCustomerRepository) FindByCode(ctx context.Context, businessLineID uuid.UUID, code string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := conn(ctx, r.db).First(&model, "business_line_id = ? AND code = ?", businessLineID, shared.NormalizeCode(code)).Error; err != nil {
		return nil, translateError(err, "Customer")
	}
	return model.ToDomain(), nil
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var rows []models.CustomerModel
	query := partnerFilter(conn(ctx, r.db).Model(&models.CustomerModel{}), businessLineID, filter)
	if err := paginate(query, filter, CustomerSortFields, "name").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Customer")
	}
	out := make([]partner.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormCustomerRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := partnerFilter(conn(ctx, r.db).Model(&models.CustomerModel{}), businessLineID, filter).Count(&n).Error
	if err != nil {
		return 0, translateError(err, "Customer")
	}
	return n, nil
}

func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.CustomerModel{}, "business_line_id = ? AND code = ?", businessLineID, shared.NormalizeCode(code))
	if err != nil {
		return false, translateError(err, "Customer")
	}
	return n > 0, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	if err := conn(ctx, r.db).Save(models.CustomerModelFromDomain(customer)).Error; err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	customer.MarkPersisted()
	return nil
}

func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := updateWithVersion(conn(ctx, r.db), model, customer.ID, customer.PersistedVersion(), "customer"); err != nil {
		return err
	}
	customer.MarkPersisted()
	return nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return deleteScoped(conn(ctx, r.db), &models.CustomerModel{}, businessLineID, id, "Customer")
}

func (r *GormCustomerRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	db := conn(ctx, r.db)
	invoices, err := count(db, &models.SalesInvoiceModel{}, "business_line_id = ? AND customer_id = ?", businessLineID, id)
	if err != nil {
		return nil, fmt.Errorf("count customer invoices: %w", err)
	}
	payments, err := count(db, &models.PaymentModel{}, "business_line_id = ? AND party_id = ? AND direction = ?",
		businessLineID, id, finance.DirectionIncoming)
	if err != nil {
		return nil, fmt.Errorf("count customer payments: %w", err)
	}
	return shared.Dependencies{
		partner.DependencySalesInvoices: invoices,
		partner.DependencyPayments:      payments,
	}, nil
}

// GormVendorRepository implements partner.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

func (r *GormVendorRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*partner.Vendor, error) {
	var model models.VendorModel
	if err := conn(ctx, r.db).First(&model, "business_line_id = ? AND id = ?", businessLineID, id).Error; err != nil {
		return nil, translateError(err, "Vendor")
	}
	return model.ToDomain(), nil
}

func (r *GormVendorRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	var rows []models.VendorModel
	query := partnerFilter(conn(ctx, r.db).Model(&models.VendorModel{}), businessLineID, filter)
	if err := paginate(query, filter, VendorSortFields, "name").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Vendor")
	}
	out := make([]partner.Vendor, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormVendorRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := partnerFilter(conn(ctx, r.db).Model(&models.VendorModel{}), businessLineID, filter).Count(&n).Error
	if err != nil {
		return 0, translateError(err, "Vendor")
	}
	return n, nil
}

func (r *GormVendorRepository) ExistsByCode(ctx context.Context, businessLineID uuid.UUID, code string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.VendorModel{}, "business_line_id = ? AND code = ?", businessLineID, shared.NormalizeCode(code))
	if err != nil {
		return false, translateError(err, "Vendor")
	}
	return n > 0, nil
}

func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	if err := conn(ctx, r.db).Save(models.VendorModelFromDomain(vendor)).Error; err != nil {
		return fmt.Errorf("save vendor: %w", err)
	}
	vendor.MarkPersisted()
	return nil
}

func (r *GormVendorRepository) SaveWithLock(ctx context.Context, vendor *partner.Vendor) error {
	model := models.VendorModelFromDomain(vendor)
	if err := updateWithVersion(conn(ctx, r.db), model, vendor.ID, vendor.PersistedVersion(), "vendor"); err != nil {
		return err
	}
	vendor.MarkPersisted()
	return nil
}

func (r *GormVendorRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return deleteScoped(conn(ctx, r.db), &models.VendorModel{}, businessLineID, id, "Vendor")
}

func (r *GormVendorRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	db := conn(ctx, r.db)
	intakes, err := count(db, &models.PurchaseIntakeModel{}, "business_line_id = ? AND vendor_id = ?", businessLineID, id)
	if err != nil {
		return nil, fmt.Errorf("count vendor intakes: %w", err)
	}
	payments, err := count(db, &models.PaymentModel{}, "business_line_id = ? AND party_id = ? AND direction = ?",
		businessLineID, id, finance.DirectionOutgoing)
	if err != nil {
		return nil, fmt.Errorf("count vendor payments: %w", err)
	}
	return shared.Dependencies{
		partner.DependencyPurchaseIntakes: intakes,
		partner.DependencyPayments:        payments,
	}, nil
}

// partnerFilter applies the scope, search and status filters shared by customers and vendors
func partnerFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "code", "name", "contact_name", "phone", "email")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var (
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.VendorRepository   = (*GormVendorRepository)(nil)
)
