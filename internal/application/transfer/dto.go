package transfer

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/google/uuid"
)

// CreateTransferRequest asks to move one unit to another branch
type CreateTransferRequest struct {
	UnitID     uuid.UUID
	ToBranchID uuid.UUID
	Reason     string
	Notes      string
}

// CreateAccessoryTransferRequest asks to move a quantity of an accessory to another branch
type CreateAccessoryTransferRequest struct {
	AccessoryID uuid.UUID
	ToBranchID  uuid.UUID
	Quantity    int64
	Reason      string
	Notes       string
}

// ListQueryInput is the raw list query as received from a client
type ListQueryInput struct {
	Direction string
	Status    string
	StatusNot string
	Page      int
	PageSize  int
}

// Parse validates the raw values and builds the transfer query
func (in ListQueryInput) Parse() (transfer.Query, error) {
	direction, ok := transfer.ParseDirection(in.Direction)
	if !ok {
		return transfer.Query{}, shared.NewDomainError(shared.CodeInvalidInput, "direction must be incoming, outgoing or all")
	}
	q := transfer.Query{Direction: direction, Page: in.Page, PageSize: in.PageSize}
	if in.Status != "" {
		st, ok := transfer.ParseStatus(in.Status)
		if !ok {
			return transfer.Query{}, shared.NewDomainError(shared.CodeInvalidInput, "unknown status "+in.Status)
		}
		q.Status = &st
	}
	if in.StatusNot != "" {
		st, ok := transfer.ParseStatus(in.StatusNot)
		if !ok {
			return transfer.Query{}, shared.NewDomainError(shared.CodeInvalidInput, "unknown status "+in.StatusNot)
		}
		q.StatusNot = &st
	}
	return q, nil
}

// TransferResponse is the view of either transfer flavour
type TransferResponse struct {
	ID             uuid.UUID     `json:"id"`
	Kind           transfer.Kind `json:"kind"`
	UnitID         *uuid.UUID    `json:"unit_id,omitempty"`
	AccessoryID    *uuid.UUID    `json:"accessory_id,omitempty"`
	Quantity       int64         `json:"quantity"`
	FromBranchID   uuid.UUID     `json:"from_branch_id"`
	FromBranchName string        `json:"from_branch_name,omitempty"`
	ToBranchID     uuid.UUID     `json:"to_branch_id"`
	ToBranchName   string        `json:"to_branch_name,omitempty"`
	RequestedByID  uuid.UUID     `json:"requested_by_id"`
	ReceivedByID   *uuid.UUID    `json:"received_by_id,omitempty"`
	Reason         string        `json:"reason"`
	Notes          string        `json:"notes,omitempty"`
	Status         string        `json:"status"`
	ReceivedAt     *time.Time    `json:"received_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func fromRequest(id uuid.UUID, kind transfer.Kind, r *transfer.Request, created, updated time.Time) TransferResponse {
	return TransferResponse{
		ID:            id,
		Kind:          kind,
		FromBranchID:  r.FromBranchID,
		ToBranchID:    r.ToBranchID,
		RequestedByID: r.RequestedByID,
		ReceivedByID:  r.ReceivedByID,
		Reason:        r.Reason,
		Notes:         r.Notes,
		Status:        r.Status.String(),
		ReceivedAt:    r.ReceivedAt,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}
}

// ToTransferResponse converts a unit transfer
func ToTransferResponse(t *transfer.Transfer) TransferResponse {
	resp := fromRequest(t.ID, transfer.KindUnit, &t.Request, t.CreatedAt, t.UpdatedAt)
	unitID := t.UnitID
	resp.UnitID = &unitID
	resp.Quantity = 1
	return resp
}

// ToAccessoryTransferResponse converts an accessory transfer
func ToAccessoryTransferResponse(t *transfer.AccessoryTransfer) TransferResponse {
	resp := fromRequest(t.ID, transfer.KindAccessory, &t.Request, t.CreatedAt, t.UpdatedAt)
	accessoryID := t.AccessoryID
	resp.AccessoryID = &accessoryID
	resp.Quantity = t.Quantity
	return resp
}

func withBranchNames(items []TransferResponse, branches map[uuid.UUID]*branch.Branch) {
	for i := range items {
		if b, ok := branches[items[i].FromBranchID]; ok {
			items[i].FromBranchName = b.Name
		}
		if b, ok := branches[items[i].ToBranchID]; ok {
			items[i].ToBranchName = b.Name
		}
	}
}

func errUnknownVerb(v Verb) error {
	return shared.NewDomainError(shared.CodeInvalidInput, "unknown transition "+string(v))
}
