package persistence

import (
	"testing"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		"  Asc ":                   "ASC",
		"desc":                     "DESC",
		"sideways":                 "DESC",
		"ASC; DROP TABLE payments": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted field passes trimmed", func(t *testing.T) {
		assert.Equal(t, "credit_limit", ValidateSortField(" credit_limit ", CustomerSortFields, "created_at"))
	})

	t.Run("unknown or hostile fields fall back", func(t *testing.T) {
		for _, field := range []string{
			"",
			"CODE",
			"password_hash",
			"code; DROP TABLE customers",
			"code, (SELECT password_hash FROM users)",
			"code' OR '1'='1",
		} {
			assert.Equal(t, "created_at", ValidateSortField(field, CustomerSortFields, "created_at"), "field %q", field)
		}
	})

	t.Run("fields are not shared across entities", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("payable_balance", CustomerSortFields, "created_at"))
		assert.Equal(t, "payable_balance", ValidateSortField("payable_balance", VendorSortFields, "created_at"))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	scoped := map[string]map[string]bool{
		"business lines":   BusinessLineSortFields,
		"customers":        CustomerSortFields,
		"vendors":          VendorSortFields,
		"stock items":      StockItemSortFields,
		"sales invoices":   SalesInvoiceSortFields,
		"purchase intakes": PurchaseIntakeSortFields,
		"payments":         PaymentSortFields,
		"users":            UserSortFields,
	}
	for name, fields := range scoped {
		for common := range CommonSortFields {
			assert.True(t, fields[common], "%s should sort by %s", name, common)
		}
	}

	assert.True(t, StockAdjustmentSortFields["created_at"])
	assert.False(t, StockAdjustmentSortFields["updated_at"], "adjustments are never updated")
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestPaginate(t *testing.T) {
	db := dryRunDB(t)
	filter := shared.Filter{Page: 3, PageSize: 20, OrderBy: "name", OrderDir: "asc"}

	var rows []models.CustomerModel
	stmt := paginate(db.Model(&models.CustomerModel{}), filter, CustomerSortFields, "created_at").Find(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "ORDER BY name ASC,id ASC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, stmt.Vars, 20)
	assert.Contains(t, stmt.Vars, 40)

	t.Run("rejected field uses the default", func(t *testing.T) {
		filter.OrderBy = "password_hash"
		filter.OrderDir = ""
		var rows []models.CustomerModel
		sql := paginate(db.Model(&models.CustomerModel{}), filter, CustomerSortFields, "created_at").Find(&rows).Statement.SQL.String()
		assert.Contains(t, sql, "ORDER BY created_at DESC,id ASC")
		assert.NotContains(t, sql, "password_hash")
	})
}

func TestSearchLike(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.VendorModel
	stmt := searchLike(db.Model(&models.VendorModel{}), "  ACME ", "code", "name").Find(&rows).Statement
	assert.Contains(t, stmt.SQL.String(), "LOWER(code) LIKE ? OR LOWER(name) LIKE ?")
	assert.Equal(t, []any{"%acme%", "%acme%"}, stmt.Vars)

	t.Run("blank search adds nothing", func(t *testing.T) {
		var rows []models.VendorModel
		stmt := searchLike(db.Model(&models.VendorModel{}), "   ", "code").Find(&rows).Statement
		assert.NotContains(t, stmt.SQL.String(), "LIKE")
	})
}
