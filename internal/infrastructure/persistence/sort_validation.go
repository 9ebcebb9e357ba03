package persistence

import (
	"strings"

	"github.com/gadgetstock/backend/internal/domain/shared"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC (the default).
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField.
// Sort fields are interpolated into ORDER BY, so nothing outside the whitelist may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression from a list filter
func orderClause(f shared.Filter, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(f.OrderBy, allowed, defaultField) + " " + ValidateSortOrder(f.OrderDir)
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"slug":       true,
}

// UnitSortFields contains allowed sort fields for units
var UnitSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"serial":       true,
	"color":        true,
	"memory":       true,
	"condition":    true,
	"availability": true,
}

// StockSortFields contains allowed sort fields for the stock ledger
var StockSortFields = map[string]bool{
	"updated_at": true,
	"quantity":   true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":    true,
	"number":        true,
	"customer_name": true,
	"total_amount":  true,
	"status":        true,
}
