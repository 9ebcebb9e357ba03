package persistence

import (
	"testing"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"ASC; DROP TABLE units;--", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "serial", ValidateSortField(" serial ", UnitSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", UnitSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("serial; DROP TABLE units", UnitSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("SERIAL", UnitSortFields, "created_at"))
}

func TestOrderClause(t *testing.T) {
	f := shared.Filter{OrderBy: "total_amount", OrderDir: "asc"}
	assert.Equal(t, "total_amount ASC", orderClause(f, InvoiceSortFields, "created_at"))

	f = shared.Filter{OrderBy: "password_hash"}
	assert.Equal(t, "created_at DESC", orderClause(f, InvoiceSortFields, "created_at"))
}
