package persistence

import (
	"context"
	"fmt"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockItemRepository implements inventory.StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

func (r *GormStockItemRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := conn(ctx, r.db).First(&model, "business_line_id = ? AND id = ?", businessLineID, id).Error; err != nil {
		return nil, translateError(err, "Stock item")
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the items found; missing ids are silently skipped
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, businessLineID uuid.UUID, ids []uuid.UUID) ([]inventory.StockItem, error) {
	if len(ids) == 0 {
		return []inventory.StockItem{}, nil
	}
	var rows []models.StockItemModel
	err := conn(ctx, r.db).
		Where("business_line_id = ? AND id IN ?", businessLineID, ids).
		Order("sku ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Stock item")
	}
	return toStockItems(rows), nil
}

func (r *GormStockItemRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.StockItemModel{}), businessLineID, filter)
	if err := paginate(query, filter, StockItemSortFields, "sku").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Stock item")
	}
	return toStockItems(rows), nil
}

func (r *GormStockItemRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.StockItemModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Stock item")
	}
	return n, nil
}

func (r *GormStockItemRepository) FindLowStock(ctx context.Context, businessLineID uuid.UUID) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	err := lowStock(conn(ctx, r.db).Where("business_line_id = ? AND status = ?", businessLineID, inventory.ItemStatusActive)).
		Order("sku ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Stock item")
	}
	return toStockItems(rows), nil
}

func (r *GormStockItemRepository) ExistsBySKU(ctx context.Context, businessLineID uuid.UUID, sku string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.StockItemModel{}, "business_line_id = ? AND sku = ?", businessLineID, shared.NormalizeCode(sku))
	if err != nil {
		return false, translateError(err, "Stock item")
	}
	return n > 0, nil
}

func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	if err := conn(ctx, r.db).Save(models.StockItemModelFromDomain(item)).Error; err != nil {
		return fmt.Errorf("save stock item: %w", err)
	}
	item.MarkPersisted()
	return nil
}

func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	if err := updateWithVersion(conn(ctx, r.db), models.StockItemModelFromDomain(item), item.ID, item.PersistedVersion(), "stock item"); err != nil {
		return err
	}
	item.MarkPersisted()
	return nil
}

func (r *GormStockItemRepository) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	return deleteScoped(conn(ctx, r.db), &models.StockItemModel{}, businessLineID, id, "Stock item")
}

func (r *GormStockItemRepository) CountDependencies(ctx context.Context, businessLineID, id uuid.UUID) (shared.Dependencies, error) {
	db := conn(ctx, r.db)
	adjustments, err := count(db, &models.StockAdjustmentModel{}, "business_line_id = ? AND stock_item_id = ?", businessLineID, id)
	if err != nil {
		return nil, fmt.Errorf("count stock adjustments: %w", err)
	}
	invoiceLines, err := count(db, &models.SalesInvoiceItemModel{}, "stock_item_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("count invoice lines: %w", err)
	}
	intakeLines, err := count(db, &models.PurchaseIntakeItemModel{}, "stock_item_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("count intake lines: %w", err)
	}
	return shared.Dependencies{
		inventory.DependencyAdjustments:  adjustments,
		inventory.DependencyInvoiceLines: invoiceLines,
		inventory.DependencyIntakeLines:  intakeLines,
	}, nil
}

func (r *GormStockItemRepository) applyFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "sku", "name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if low, ok := filter.Filters["low_stock"].(bool); ok && low {
		query = lowStock(query)
	}
	return query
}

func lowStock(query *gorm.DB) *gorm.DB {
	return query.Where("quantity <= reorder_level")
}

func toStockItems(rows []models.StockItemModel) []inventory.StockItem {
	out := make([]inventory.StockItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository using GORM
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustments ...*inventory.StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	rows := make([]*models.StockAdjustmentModel, len(adjustments))
	for i, a := range adjustments {
		rows[i] = models.StockAdjustmentModelFromDomain(a)
	}
	if err := conn(ctx, r.db).Create(rows).Error; err != nil {
		return fmt.Errorf("create stock adjustments: %w", err)
	}
	return nil
}

func (r *GormStockAdjustmentRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var rows []models.StockAdjustmentModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.StockAdjustmentModel{}), businessLineID, filter)
	if err := paginate(query, filter, StockAdjustmentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Stock adjustment")
	}
	out := make([]inventory.StockAdjustment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormStockAdjustmentRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.StockAdjustmentModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Stock adjustment")
	}
	return n, nil
}

func (r *GormStockAdjustmentRepository) applyFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "sku", "reason", "reference")
	if itemID, ok := filter.Filters["stock_item_id"]; ok {
		query = query.Where("stock_item_id = ?", itemID)
	}
	if t, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", t)
	}
	return dateRange(query, "created_at", filter.From, filter.To)
}

var (
	_ inventory.StockItemRepository       = (*GormStockItemRepository)(nil)
	_ inventory.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
)
