package report_test

import (
	"context"
	"testing"
	"time"

	inventoryapp "github.com/bizline/backoffice/internal/application/inventory"
	partnerapp "github.com/bizline/backoffice/internal/application/partner"
	reportapp "github.com/bizline/backoffice/internal/application/report"
	"github.com/bizline/backoffice/internal/infrastructure/cache"
	"github.com/bizline/backoffice/internal/infrastructure/event"
	"github.com/bizline/backoffice/internal/infrastructure/persistence"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type cachedReports struct {
	db        *gorm.DB
	reports   *reportapp.ReportService
	stock     *inventoryapp.StockService
	customers *partnerapp.CustomerService
}

// newCachedReports wires the services to a real event bus whose only
// subscriber is the report cache invalidator.
func newCachedReports(t *testing.T) *cachedReports {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	reports := reportapp.NewReportService(persistence.NewGormReportRepository(db), cache.NewInMemoryReportCache(), time.Hour, nil)
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(event.NewReportCacheInvalidator(reports, zap.NewNop()))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	database := persistence.NewDatabaseFromGorm(db)
	return &cachedReports{
		db:      db,
		reports: reports,
		stock: inventoryapp.NewStockService(
			persistence.NewGormStockItemRepository(db),
			persistence.NewGormStockAdjustmentRepository(db),
			database, bus, nil,
		),
		customers: partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(db), bus, nil),
	}
}

func (c *cachedReports) createItem(t *testing.T, lineID uuid.UUID, sku, qty, cost string) uuid.UUID {
	t.Helper()
	q, u := decimal.RequireFromString(qty), decimal.RequireFromString(cost)
	item, err := c.stock.CreateItem(context.Background(), lineID, inventoryapp.CreateStockItemRequest{
		SKU:             sku,
		Name:            "Item " + sku,
		UnitCost:        &u,
		OpeningQuantity: &q,
	})
	require.NoError(t, err)
	return item.ID
}

func TestStockValuation_RefreshedAfterItemChanges(t *testing.T) {
	ctx := context.Background()
	c := newCachedReports(t)
	lineID := uuid.New()

	kept := c.createItem(t, lineID, "KEEP-1", "5", "10")
	retired := c.createItem(t, lineID, "OLD-1", "2", "100")
	removed := c.createItem(t, lineID, "GONE-1", "1", "7")

	before, err := c.reports.StockValuation(ctx, lineID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), before.ItemCount)
	assert.True(t, before.TotalValue.Equal(decimal.NewFromInt(257)), "got %s", before.TotalValue)

	t.Run("deactivated item leaves the valuation", func(t *testing.T) {
		inactive := false
		_, err := c.stock.UpdateItem(ctx, lineID, retired, inventoryapp.UpdateStockItemRequest{Active: &inactive})
		require.NoError(t, err)

		after, err := c.reports.StockValuation(ctx, lineID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), after.ItemCount)
		assert.True(t, after.TotalValue.Equal(decimal.NewFromInt(57)), "got %s", after.TotalValue)
	})

	t.Run("deleted item leaves the valuation", func(t *testing.T) {
		require.NoError(t, c.stock.DeleteItem(ctx, lineID, removed))

		after, err := c.reports.StockValuation(ctx, lineID)
		require.NoError(t, err)
		require.Len(t, after.Items, 1)
		assert.Equal(t, kept, after.Items[0].StockItemID)
		assert.True(t, after.TotalValue.Equal(decimal.NewFromInt(50)), "got %s", after.TotalValue)
	})

	t.Run("reorder level change updates the low stock flag", func(t *testing.T) {
		level := decimal.NewFromInt(5)
		_, err := c.stock.UpdateItem(ctx, lineID, kept, inventoryapp.UpdateStockItemRequest{ReorderLevel: &level})
		require.NoError(t, err)

		after, err := c.reports.StockValuation(ctx, lineID)
		require.NoError(t, err)
		require.Len(t, after.Items, 1)
		assert.True(t, after.Items[0].LowStock)
		assert.Len(t, after.LowStock, 1)
	})
}

func TestReceivables_RefreshedAfterCustomerDelete(t *testing.T) {
	ctx := context.Background()
	c := newCachedReports(t)
	lineID := uuid.New()

	created, err := c.customers.Create(ctx, lineID, partnerapp.CreateCustomerRequest{Code: "CUST-1", Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, c.db.Model(&models.CustomerModel{}).
		Where("id = ?", created.ID).
		Update("outstanding_credit", decimal.NewFromInt(40)).Error)

	before, err := c.reports.Receivables(ctx, lineID)
	require.NoError(t, err)
	require.Len(t, before.Customers, 1)
	assert.True(t, before.TotalCredit.Equal(decimal.NewFromInt(40)))

	require.NoError(t, c.customers.Delete(ctx, lineID, created.ID))

	after, err := c.reports.Receivables(ctx, lineID)
	require.NoError(t, err)
	assert.Empty(t, after.Customers)
	assert.True(t, after.TotalCredit.IsZero(), "got %s", after.TotalCredit)
}
