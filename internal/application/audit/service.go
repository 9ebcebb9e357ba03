// Package audit serves the custody history of units.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnitNotFound is returned for unknown units
var ErrUnitNotFound = shared.NewDomainError(shared.CodeNotFound, "Unit not found")

// Service reads and exports audit history
type Service struct {
	scope   appshared.TransactionScope
	storage appshared.ObjectStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new audit Service. storage may be nil when exports are disabled.
func NewService(scope appshared.TransactionScope, storage appshared.ObjectStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, storage: storage, logger: logger, now: time.Now}
}

// ListForUnit returns one page of the unit's history, newest first
func (s *Service) ListForUnit(ctx context.Context, actor access.Actor, unitID uuid.UUID, page, pageSize int) (*shared.Paginated[EntryResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	f := shared.Filter{Page: page, PageSize: pageSize}.Normalize()

	repos := s.scope.Repositories()
	if err := s.ensureUnit(ctx, repos, unitID); err != nil {
		return nil, err
	}
	entries, total, err := repos.Audit().ListForUnit(ctx, unitID, f.Page, f.PageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.enrich(ctx, repos, entries)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// ExportForUnit uploads the complete history, oldest first, as JSON lines
func (s *Service) ExportForUnit(ctx context.Context, actor access.Actor, unitID uuid.UUID) (*ExportResult, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Object storage is not configured")
	}

	repos := s.scope.Repositories()
	if err := s.ensureUnit(ctx, repos, unitID); err != nil {
		return nil, err
	}
	var all []audit.Entry
	for page := 1; ; page++ {
		entries, total, err := repos.Audit().ListForUnit(ctx, unitID, page, shared.MaxPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
		if len(entries) == 0 || int64(len(all)) >= total {
			break
		}
	}
	items, err := s.enrich(ctx, repos, all)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := len(items) - 1; i >= 0; i-- {
		if err := enc.Encode(items[i]); err != nil {
			return nil, fmt.Errorf("encode audit entry: %w", err)
		}
	}

	key := fmt.Sprintf("audit/%s/%s.jsonl", unitID, s.now().UTC().Format("20060102T150405Z"))
	obj, err := appshared.StoreDocument(ctx, s.storage, key, "application/x-ndjson", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("store audit export: %w", err)
	}
	logger.WithLogger(ctx, s.logger).Info("Audit log exported",
		zap.String("unit_id", unitID.String()),
		zap.String("key", key),
		zap.Int("entries", len(items)))
	return &ExportResult{Key: obj.Key, URL: obj.URL, ExpiresAt: obj.ExpiresAt, Entries: len(items)}, nil
}

// ensureUnit accepts soft-deleted units so their history stays readable
func (s *Service) ensureUnit(ctx context.Context, repos appshared.Repositories, unitID uuid.UUID) error {
	units, err := repos.Units().FindByIDs(ctx, []uuid.UUID{unitID})
	if err != nil {
		return err
	}
	if _, ok := units[unitID]; !ok {
		return ErrUnitNotFound
	}
	return nil
}

func (s *Service) enrich(ctx context.Context, repos appshared.Repositories, entries []audit.Entry) ([]EntryResponse, error) {
	var userIDs, branchIDs, transferIDs, invoiceIDs []uuid.UUID
	for _, e := range entries {
		userIDs = append(userIDs, e.ActorUserID)
		for _, id := range []*uuid.UUID{e.ActorBranchID, e.FromBranchID, e.ToBranchID} {
			if id != nil {
				branchIDs = append(branchIDs, *id)
			}
		}
		if e.TransferID != nil {
			transferIDs = append(transferIDs, *e.TransferID)
		}
		if e.InvoiceID != nil {
			invoiceIDs = append(invoiceIDs, *e.InvoiceID)
		}
	}

	users, err := repos.Users().FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	branches, err := repos.Branches().FindByIDs(ctx, branchIDs)
	if err != nil {
		return nil, err
	}
	transfers, err := repos.Transfers().FindByIDs(ctx, transferIDs)
	if err != nil {
		return nil, err
	}
	invoices, err := repos.Invoices().FindByIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}

	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID:          e.ID,
			UnitID:      e.UnitID,
			Action:      e.Action,
			ActorUserID: e.ActorUserID,
			ActorBranch: branchRef(branches, e.ActorBranchID),
			FromBranch:  branchRef(branches, e.FromBranchID),
			ToBranch:    branchRef(branches, e.ToBranchID),
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		}
		out[i].ActorName = displayName(users, e.ActorUserID)
		if e.TransferID != nil {
			if t, ok := transfers[*e.TransferID]; ok {
				out[i].Transfer = transferSummary(t)
			}
		}
		if e.InvoiceID != nil {
			if inv, ok := invoices[*e.InvoiceID]; ok {
				out[i].Invoice = invoiceSummary(inv)
			}
		}
	}
	return out, nil
}

func branchRef(branches map[uuid.UUID]*branch.Branch, id *uuid.UUID) *BranchRef {
	if id == nil {
		return nil
	}
	ref := &BranchRef{ID: *id}
	if b, ok := branches[*id]; ok {
		ref.Name = b.Name
	}
	return ref
}

func displayName(users map[uuid.UUID]*identity.User, id uuid.UUID) string {
	u, ok := users[id]
	if !ok {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func transferSummary(t *transfer.Transfer) *TransferSummary {
	return &TransferSummary{ID: t.ID, Status: string(t.Status), Reason: t.Reason}
}

func invoiceSummary(inv *trade.Invoice) *InvoiceSummary {
	return &InvoiceSummary{ID: inv.ID, Number: inv.Number, Status: string(inv.Status)}
}
