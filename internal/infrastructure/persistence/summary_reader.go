package persistence

import (
	"context"
	"time"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSummaryReader computes dashboard lines with grouped count queries
type GormSummaryReader struct {
	db *gorm.DB
}

// NewGormSummaryReader creates a new GormSummaryReader
func NewGormSummaryReader(db *gorm.DB) *GormSummaryReader {
	return &GormSummaryReader{db: db}
}

type branchCount struct {
	BranchID uuid.UUID
	N        int64
}

// Summaries implements report.SummaryReader
func (r *GormSummaryReader) Summaries(ctx context.Context, branchIDs []uuid.UUID, soldSince time.Time) ([]report.BranchSummary, error) {
	db := r.db.WithContext(ctx)

	var branches []models.BranchModel
	q := db.Order("name ASC")
	if branchIDs != nil {
		q = q.Where("id IN ?", branchIDs)
	}
	if err := q.Find(&branches).Error; err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return []report.BranchSummary{}, nil
	}
	ids := make([]uuid.UUID, len(branches))
	for i, b := range branches {
		ids[i] = b.ID
	}

	available, err := r.count(db.Model(&models.UnitModel{}).
		Select("branch_id, COUNT(*) AS n").
		Where("availability = ? AND branch_id IN ?", inventory.AvailabilityAvailable, ids).
		Group("branch_id"))
	if err != nil {
		return nil, err
	}

	sold, err := r.count(db.Table("invoice_items").
		Select("invoices.branch_id AS branch_id, COUNT(*) AS n").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoice_items.unit_id IS NOT NULL").
		Where("invoices.status <> ? AND invoices.created_at >= ? AND invoices.branch_id IN ?",
			trade.InvoiceStatusCancelled, soldSince, ids).
		Group("invoices.branch_id"))
	if err != nil {
		return nil, err
	}

	open := []string{string(transfer.StatusPending), string(transfer.StatusApproved)}
	incoming, err := r.count(db.Model(&models.TransferModel{}).
		Select("to_branch_id AS branch_id, COUNT(*) AS n").
		Where("status IN ? AND to_branch_id IN ?", open, ids).
		Group("to_branch_id"))
	if err != nil {
		return nil, err
	}
	outgoing, err := r.count(db.Model(&models.TransferModel{}).
		Select("from_branch_id AS branch_id, COUNT(*) AS n").
		Where("status IN ? AND from_branch_id IN ?", open, ids).
		Group("from_branch_id"))
	if err != nil {
		return nil, err
	}

	accessories, err := r.count(db.Model(&models.AccessoryStockModel{}).
		Select("branch_id, COALESCE(SUM(quantity), 0) AS n").
		Where("branch_id IN ?", ids).
		Group("branch_id"))
	if err != nil {
		return nil, err
	}

	lines := make([]report.BranchSummary, 0, len(branches))
	for _, b := range branches {
		lines = append(lines, report.BranchSummary{
			BranchID:          b.ID,
			BranchName:        b.Name,
			AvailableUnits:    available[b.ID],
			UnitsSoldToday:    sold[b.ID],
			PendingIncoming:   incoming[b.ID],
			PendingOutgoing:   outgoing[b.ID],
			AccessoryQuantity: accessories[b.ID],
		})
	}
	return lines, nil
}

func (r *GormSummaryReader) count(q *gorm.DB) (map[uuid.UUID]int64, error) {
	var rows []branchCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.BranchID] = row.N
	}
	return out, nil
}

var _ report.SummaryReader = (*GormSummaryReader)(nil)
