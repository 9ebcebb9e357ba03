package audit

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// BranchRef names a branch referenced by an entry
type BranchRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TransferSummary is the part of a transfer shown next to an entry
type TransferSummary struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Reason string    `json:"reason"`
}

// InvoiceSummary is the part of an invoice shown next to an entry
type InvoiceSummary struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
	Status string    `json:"status"`
}

// EntryResponse is an audit entry with its references resolved
type EntryResponse struct {
	ID          uuid.UUID        `json:"id"`
	UnitID      uuid.UUID        `json:"unit_id"`
	Action      audit.Action     `json:"action"`
	ActorUserID uuid.UUID        `json:"actor_user_id"`
	ActorName   string           `json:"actor_name,omitempty"`
	ActorBranch *BranchRef       `json:"actor_branch,omitempty"`
	FromBranch  *BranchRef       `json:"from_branch,omitempty"`
	ToBranch    *BranchRef       `json:"to_branch,omitempty"`
	Transfer    *TransferSummary `json:"transfer,omitempty"`
	Invoice     *InvoiceSummary  `json:"invoice,omitempty"`
	Details     audit.Details    `json:"details"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ExportResult points at an uploaded custody-chain export
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Entries   int       `json:"entries"`
}
