package persistence

import (
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// paginate applies a whitelisted order and the page window of the filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// searchLike adds a case-insensitive substring match over the given columns
func searchLike(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// CommonSortFields contains fields common to every aggregate
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

var BusinessLineSortFields = withCommon("code", "name", "status")

var CustomerSortFields = withCommon("code", "name", "contact_name", "status", "credit_limit", "outstanding_credit")

var VendorSortFields = withCommon("code", "name", "contact_name", "status", "payable_balance")

var StockItemSortFields = withCommon("sku", "name", "quantity", "reorder_level", "unit_cost", "sale_price", "status")

var StockAdjustmentSortFields = map[string]bool{
	"created_at": true,
	"sku":        true,
	"type":       true,
	"delta":      true,
}

var SalesInvoiceSortFields = withCommon("invoice_number", "customer_name", "status", "total", "paid_amount", "issued_at", "due_date")

var PurchaseIntakeSortFields = withCommon("intake_number", "vendor_name", "status", "total", "received_at")

var PaymentSortFields = withCommon("payment_number", "party_name", "method", "status", "amount", "paid_at")

var UserSortFields = withCommon("username", "display_name", "email", "role", "status", "last_login_at")

func withCommon(fields ...string) map[string]bool {
	out := make(map[string]bool, len(CommonSortFields)+len(fields))
	for k := range CommonSortFields {
		out[k] = true
	}
	for _, f := range fields {
		out[f] = true
	}
	return out
}
