package persistence

import (
	"context"
	"fmt"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBusinessLineRepository implements businessline.Repository using GORM
type GormBusinessLineRepository struct {
	db *gorm.DB
}

func NewGormBusinessLineRepository(db *gorm.DB) *GormBusinessLineRepository {
	return &GormBusinessLineRepository{db: db}
}

func (r *GormBusinessLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*businessline.BusinessLine, error) {
	var model models.BusinessLineModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Business line")
	}
	return model.ToDomain(), nil
}

func (r *GormBusinessLineRepository) FindByCode(ctx context.Context, code string) (*businessline.BusinessLine, error) {
	var model models.BusinessLineModel
	if err := conn(ctx, r.db).First(&model, "code = ?", shared.NormalizeCode(code)).Error; err != nil {
		return nil, translateError(err, "Business line")
	}
	return model.ToDomain(), nil
}

func (r *GormBusinessLineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]businessline.BusinessLine, error) {
	if len(ids) == 0 {
		return []businessline.BusinessLine{}, nil
	}
	var rows []models.BusinessLineModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Business line")
	}
	return toBusinessLines(rows), nil
}

func (r *GormBusinessLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]businessline.BusinessLine, error) {
	var rows []models.BusinessLineModel
	query := paginate(r.applyFilter(conn(ctx, r.db).Model(&models.BusinessLineModel{}), filter), filter, BusinessLineSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err, "Business line")
	}
	return toBusinessLines(rows), nil
}

func (r *GormBusinessLineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.BusinessLineModel{}), filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Business line")
	}
	return n, nil
}

func (r *GormBusinessLineRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.BusinessLineModel{}, "code = ?", shared.NormalizeCode(code))
	if err != nil {
		return false, translateError(err, "Business line")
	}
	return n > 0, nil
}

func (r *GormBusinessLineRepository) Save(ctx context.Context, line *businessline.BusinessLine) error {
	if err := conn(ctx, r.db).Save(models.BusinessLineModelFromDomain(line)).Error; err != nil {
		return fmt.Errorf("save business line: %w", err)
	}
	line.MarkPersisted()
	return nil
}

func (r *GormBusinessLineRepository) SaveWithLock(ctx context.Context, line *businessline.BusinessLine) error {
	if err := updateWithVersion(conn(ctx, r.db), models.BusinessLineModelFromDomain(line), line.ID, line.PersistedVersion(), "business line"); err != nil {
		return err
	}
	line.MarkPersisted()
	return nil
}

func (r *GormBusinessLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.BusinessLineModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete business line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "Business line not found")
	}
	return nil
}

// scopedTables lists the tables carrying business_line_id, keyed by dependency kind
var scopedTables = []struct {
	kind  string
	table string
}{
	{businessline.DependencyCustomers, "customers"},
	{businessline.DependencyVendors, "vendors"},
	{businessline.DependencyStockItems, "stock_items"},
	{businessline.DependencyStockAdjustments, "stock_adjustments"},
	{businessline.DependencySalesInvoices, "sales_invoices"},
	{businessline.DependencyPurchaseIntakes, "purchase_intakes"},
	{businessline.DependencyPayments, "payments"},
	{businessline.DependencyUsers, "user_business_lines"},
}

func (r *GormBusinessLineRepository) CountDependencies(ctx context.Context, id uuid.UUID) (shared.Dependencies, error) {
	db := conn(ctx, r.db)
	deps := make(shared.Dependencies, len(scopedTables))
	for _, t := range scopedTables {
		var n int64
		if err := db.Table(t.table).Where("business_line_id = ?", id).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", t.kind, err)
		}
		deps[t.kind] = n
	}
	return deps, nil
}

// cascadeSteps deletes children before parents. Child rows without a
// business_line_id column are removed through their parent.
var cascadeSteps = []struct {
	kind string
	sql  string
}{
	{"", "DELETE FROM payment_status_changes WHERE payment_id IN (SELECT id FROM payments WHERE business_line_id = ?)"},
	{businessline.DependencyPayments, "DELETE FROM payments WHERE business_line_id = ?"},
	{"", "DELETE FROM sales_invoice_items WHERE invoice_id IN (SELECT id FROM sales_invoices WHERE business_line_id = ?)"},
	{businessline.DependencySalesInvoices, "DELETE FROM sales_invoices WHERE business_line_id = ?"},
	{"", "DELETE FROM purchase_intake_items WHERE intake_id IN (SELECT id FROM purchase_intakes WHERE business_line_id = ?)"},
	{businessline.DependencyPurchaseIntakes, "DELETE FROM purchase_intakes WHERE business_line_id = ?"},
	{businessline.DependencyStockAdjustments, "DELETE FROM stock_adjustments WHERE business_line_id = ?"},
	{businessline.DependencyStockItems, "DELETE FROM stock_items WHERE business_line_id = ?"},
	{businessline.DependencyCustomers, "DELETE FROM customers WHERE business_line_id = ?"},
	{businessline.DependencyVendors, "DELETE FROM vendors WHERE business_line_id = ?"},
	{businessline.DependencyUsers, "DELETE FROM user_business_lines WHERE business_line_id = ?"},
}

// DeleteCascade must run inside a transaction to be atomic; callers use WithinTx.
func (r *GormBusinessLineRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (shared.Dependencies, error) {
	db := conn(ctx, r.db)
	removed := make(shared.Dependencies)
	for _, step := range cascadeSteps {
		result := db.Exec(step.sql, id)
		if result.Error != nil {
			return nil, fmt.Errorf("cascade delete business line: %w", result.Error)
		}
		if step.kind != "" {
			removed[step.kind] = result.RowsAffected
		}
	}
	if err := r.Delete(ctx, id); err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *GormBusinessLineRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "code", "name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

func toBusinessLines(rows []models.BusinessLineModel) []businessline.BusinessLine {
	out := make([]businessline.BusinessLine, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ businessline.Repository = (*GormBusinessLineRepository)(nil)
