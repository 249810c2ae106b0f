package persistence

import (
	"context"
	"fmt"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesInvoiceRepository implements trade.SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

func (r *GormSalesInvoiceRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*trade.SalesInvoice, error) {
	return r.findOne(ctx, "business_line_id = ? AND id = ?", businessLineID, id)
}

func (r *GormSalesInvoiceRepository) FindByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (*trade.SalesInvoice, error) {
	return r.findOne(ctx, "business_line_id = ? AND invoice_number = ?", businessLineID, number)
}

func (r *GormSalesInvoiceRepository) findOne(ctx context.Context, where string, args ...any) (*trade.SalesInvoice, error) {
	db := conn(ctx, r.db)
	var model models.SalesInvoiceModel
	if err := db.Where(where, args...).First(&model).Error; err != nil {
		return nil, translateError(err, "Sales invoice")
	}
	invoices, err := r.withItems(db, []models.SalesInvoiceModel{model})
	if err != nil {
		return nil, err
	}
	return &invoices[0], nil
}

func (r *GormSalesInvoiceRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	db := conn(ctx, r.db)
	var rows []models.SalesInvoiceModel
	query := r.applyFilter(db.Model(&models.SalesInvoiceModel{}), businessLineID, filter)
	if err := paginate(query, filter, SalesInvoiceSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Sales invoice")
	}
	return r.withItems(db, rows)
}

func (r *GormSalesInvoiceRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.SalesInvoiceModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Sales invoice")
	}
	return n, nil
}

// FindUnpaidByCustomer returns issued or partially paid invoices, oldest first
func (r *GormSalesInvoiceRepository) FindUnpaidByCustomer(ctx context.Context, businessLineID, customerID uuid.UUID) ([]trade.SalesInvoice, error) {
	db := conn(ctx, r.db)
	var rows []models.SalesInvoiceModel
	err := db.
		Where("business_line_id = ? AND customer_id = ? AND status IN ?", businessLineID, customerID,
			[]trade.InvoiceStatus{trade.InvoiceStatusIssued, trade.InvoiceStatusPartiallyPaid}).
		Order("issued_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Sales invoice")
	}
	return r.withItems(db, rows)
}

func (r *GormSalesInvoiceRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.SalesInvoiceModel{}, "business_line_id = ? AND invoice_number = ?", businessLineID, number)
	if err != nil {
		return false, translateError(err, "Sales invoice")
	}
	return n > 0, nil
}

func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *trade.SalesInvoice) error {
	model, items := models.SalesInvoiceModelFromDomain(invoice)
	db := conn(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return fmt.Errorf("save sales invoice: %w", err)
	}
	if err := r.replaceItems(db, invoice.ID, items); err != nil {
		return err
	}
	invoice.MarkPersisted()
	return nil
}

func (r *GormSalesInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.SalesInvoice) error {
	model, items := models.SalesInvoiceModelFromDomain(invoice)
	db := conn(ctx, r.db)
	if err := updateWithVersion(db, model, invoice.ID, invoice.PersistedVersion(), "sales invoice"); err != nil {
		return err
	}
	if err := r.replaceItems(db, invoice.ID, items); err != nil {
		return err
	}
	invoice.MarkPersisted()
	return nil
}

func (r *GormSalesInvoiceRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("invoice_id = ?", id).Delete(&models.SalesInvoiceItemModel{}).Error; err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return deleteScoped(db, &models.SalesInvoiceModel{}, businessLineID, id, "Sales invoice")
}

func (r *GormSalesInvoiceRepository) replaceItems(db *gorm.DB, invoiceID uuid.UUID, items []models.SalesInvoiceItemModel) error {
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&models.SalesInvoiceItemModel{}).Error; err != nil {
		return fmt.Errorf("clear invoice items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("save invoice items: %w", err)
	}
	return nil
}

// withItems loads the items of all given invoices in one query
func (r *GormSalesInvoiceRepository) withItems(db *gorm.DB, rows []models.SalesInvoiceModel) ([]trade.SalesInvoice, error) {
	out := make([]trade.SalesInvoice, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []models.SalesInvoiceItemModel
	if err := db.Where("invoice_id IN ?", ids).Order("sku ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]models.SalesInvoiceItemModel, len(rows))
	for _, it := range items {
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
	}
	for i := range rows {
		out = append(out, *rows[i].ToDomain(byInvoice[rows[i].ID]))
	}
	return out, nil
}

func (r *GormSalesInvoiceRepository) applyFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "invoice_number", "customer_name")
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return dateRange(query, "created_at", filter.From, filter.To)
}

// GormPurchaseIntakeRepository implements trade.PurchaseIntakeRepository using GORM
type GormPurchaseIntakeRepository struct {
	db *gorm.DB
}

func NewGormPurchaseIntakeRepository(db *gorm.DB) *GormPurchaseIntakeRepository {
	return &GormPurchaseIntakeRepository{db: db}
}

func (r *GormPurchaseIntakeRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*trade.PurchaseIntake, error) {
	db := conn(ctx, r.db)
	var model models.PurchaseIntakeModel
	if err := db.First(&model, "business_line_id = ? AND id = ?", businessLineID, id).Error; err != nil {
		return nil, translateError(err, "Purchase intake")
	}
	intakes, err := r.withItems(db, []models.PurchaseIntakeModel{model})
	if err != nil {
		return nil, err
	}
	return &intakes[0], nil
}

func (r *GormPurchaseIntakeRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]trade.PurchaseIntake, error) {
	db := conn(ctx, r.db)
	var rows []models.PurchaseIntakeModel
	query := r.applyFilter(db.Model(&models.PurchaseIntakeModel{}), businessLineID, filter)
	if err := paginate(query, filter, PurchaseIntakeSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Purchase intake")
	}
	return r.withItems(db, rows)
}

func (r *GormPurchaseIntakeRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.PurchaseIntakeModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Purchase intake")
	}
	return n, nil
}

func (r *GormPurchaseIntakeRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.PurchaseIntakeModel{}, "business_line_id = ? AND intake_number = ?", businessLineID, number)
	if err != nil {
		return false, translateError(err, "Purchase intake")
	}
	return n > 0, nil
}

func (r *GormPurchaseIntakeRepository) Save(ctx context.Context, intake *trade.PurchaseIntake) error {
	model, items := models.PurchaseIntakeModelFromDomain(intake)
	db := conn(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return fmt.Errorf("save purchase intake: %w", err)
	}
	if err := r.replaceItems(db, intake.ID, items); err != nil {
		return err
	}
	intake.MarkPersisted()
	return nil
}

func (r *GormPurchaseIntakeRepository) SaveWithLock(ctx context.Context, intake *trade.PurchaseIntake) error {
	model, items := models.PurchaseIntakeModelFromDomain(intake)
	db := conn(ctx, r.db)
	if err := updateWithVersion(db, model, intake.ID, intake.PersistedVersion(), "purchase intake"); err != nil {
		return err
	}
	if err := r.replaceItems(db, intake.ID, items); err != nil {
		return err
	}
	intake.MarkPersisted()
	return nil
}

func (r *GormPurchaseIntakeRepository) replaceItems(db *gorm.DB, intakeID uuid.UUID, items []models.PurchaseIntakeItemModel) error {
	if err := db.Where("intake_id = ?", intakeID).Delete(&models.PurchaseIntakeItemModel{}).Error; err != nil {
		return fmt.Errorf("clear intake items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("save intake items: %w", err)
	}
	return nil
}

func (r *GormPurchaseIntakeRepository) withItems(db *gorm.DB, rows []models.PurchaseIntakeModel) ([]trade.PurchaseIntake, error) {
	out := make([]trade.PurchaseIntake, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []models.PurchaseIntakeItemModel
	if err := db.Where("intake_id IN ?", ids).Order("sku ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load intake items: %w", err)
	}
	byIntake := make(map[uuid.UUID][]models.PurchaseIntakeItemModel, len(rows))
	for _, it := range items {
		byIntake[it.IntakeID] = append(byIntake[it.IntakeID], it)
	}
	for i := range rows {
		out = append(out, *rows[i].ToDomain(byIntake[rows[i].ID]))
	}
	return out, nil
}

func (r *GormPurchaseIntakeRepository) applyFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "intake_number", "vendor_name")
	if vendorID, ok := filter.Filters["vendor_id"]; ok {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return dateRange(query, "created_at", filter.From, filter.To)
}

var (
	_ trade.SalesInvoiceRepository   = (*GormSalesInvoiceRepository)(nil)
	_ trade.PurchaseIntakeRepository = (*GormPurchaseIntakeRepository)(nil)
)
