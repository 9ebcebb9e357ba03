package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDashboard_Totals(t *testing.T) {
	d := NewDashboard(time.Now(), []BranchSummary{
		{BranchID: uuid.New(), AvailableUnits: 3, UnitsSoldToday: 1, PendingIncoming: 2, AccessoryQuantity: 10},
		{BranchID: uuid.New(), AvailableUnits: 4, PendingOutgoing: 2, AccessoryQuantity: 5},
	})

	assert.Equal(t, int64(7), d.Totals.AvailableUnits)
	assert.Equal(t, int64(1), d.Totals.UnitsSoldToday)
	assert.Equal(t, int64(2), d.Totals.PendingIncoming)
	assert.Equal(t, int64(2), d.Totals.PendingOutgoing)
	assert.Equal(t, int64(15), d.Totals.AccessoryQuantity)
}

func TestNewDashboard_EmptyHasNonNilBranches(t *testing.T) {
	d := NewDashboard(time.Now(), nil)
	assert.NotNil(t, d.Branches)
	assert.Empty(t, d.Branches)
}
