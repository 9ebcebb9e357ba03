// Package report holds read models that aggregate across bounded contexts.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BranchSummary is the dashboard line for one branch
type BranchSummary struct {
	BranchID          uuid.UUID `json:"branch_id"`
	BranchName        string    `json:"branch_name"`
	AvailableUnits    int64     `json:"available_units"`
	UnitsSoldToday    int64     `json:"units_sold_today"`
	PendingIncoming   int64     `json:"pending_incoming"`
	PendingOutgoing   int64     `json:"pending_outgoing"`
	AccessoryQuantity int64     `json:"accessory_quantity"`
}

// Dashboard is the summary shown to a branch. The admin branch gets every branch.
type Dashboard struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Branches    []BranchSummary `json:"branches"`
	Totals      BranchSummary   `json:"totals"`
}

// NewDashboard sums the branch lines into Totals
func NewDashboard(at time.Time, lines []BranchSummary) *Dashboard {
	d := &Dashboard{GeneratedAt: at, Branches: lines}
	if d.Branches == nil {
		d.Branches = []BranchSummary{}
	}
	for _, l := range lines {
		d.Totals.AvailableUnits += l.AvailableUnits
		d.Totals.UnitsSoldToday += l.UnitsSoldToday
		d.Totals.PendingIncoming += l.PendingIncoming
		d.Totals.PendingOutgoing += l.PendingOutgoing
		d.Totals.AccessoryQuantity += l.AccessoryQuantity
	}
	return d
}

// SummaryReader computes branch summaries straight from the store
type SummaryReader interface {
	// Summaries returns one line per branch. A nil branchIDs means every branch.
	// Sales are counted from soldSince onward.
	Summaries(ctx context.Context, branchIDs []uuid.UUID, soldSince time.Time) ([]BranchSummary, error)
}

// DashboardCache keeps recently computed dashboards
type DashboardCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key string) (*Dashboard, error)
	Set(ctx context.Context, key string, d *Dashboard, ttl time.Duration) error
	// Invalidate drops the dashboards of the branches and the all-branches view
	Invalidate(ctx context.Context, branchIDs ...uuid.UUID) error
}

// AllBranchesKey is the cache key of the admin view
const AllBranchesKey = "all"

// BranchKey is the cache key of a single branch view
func BranchKey(id uuid.UUID) string {
	return id.String()
}
