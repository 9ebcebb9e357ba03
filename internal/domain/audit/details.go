package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Details is the action-specific payload of an audit entry. Each action has
// exactly one variant; the variant reports the action it belongs to.
type Details interface {
	Action() Action
}

// ProductCreatedDetails records warehouse intake
type ProductCreatedDetails struct {
	Serial    string `json:"serial"`
	Condition string `json:"condition"`
}

// TransferRequestedDetails records a transfer request
type TransferRequestedDetails struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status"`
}

// TransferReceivedDetails records the completion of a transfer
type TransferReceivedDetails struct {
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// SoldDetails records a sale
type SoldDetails struct {
	InvoiceNumber string `json:"invoice_number"`
	ItemKind      string `json:"item_kind"`
	Price         string `json:"price"`
}

// ReturnedDetails records a unit coming back through a return or a cancelled invoice
type ReturnedDetails struct {
	Resolution        string     `json:"resolution"`
	Reason            string     `json:"reason,omitempty"`
	ReplacementUnitID *uuid.UUID `json:"replacement_unit_id,omitempty"`
	Available         bool       `json:"available"`
}

// AdminCorrectionDetails records a direct administrative edit of a unit
type AdminCorrectionDetails struct {
	Fields []string `json:"fields"`
}

func (ProductCreatedDetails) Action() Action    { return ActionProductCreated }
func (TransferRequestedDetails) Action() Action { return ActionTransferRequested }
func (TransferReceivedDetails) Action() Action  { return ActionTransferReceived }
func (SoldDetails) Action() Action              { return ActionSold }
func (ReturnedDetails) Action() Action          { return ActionReturned }
func (AdminCorrectionDetails) Action() Action   { return ActionAdminCorrection }

// EncodeDetails serialises a details variant to JSON
func EncodeDetails(d Details) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// DecodeDetails parses the stored payload into the variant belonging to action.
// Unknown fields are rejected.
func DecodeDetails(action Action, raw []byte) (Details, error) {
	var target Details
	switch action {
	case ActionProductCreated:
		target = &ProductCreatedDetails{}
	case ActionTransferRequested:
		target = &TransferRequestedDetails{}
	case ActionTransferReceived:
		target = &TransferReceivedDetails{}
	case ActionSold:
		target = &SoldDetails{}
	case ActionReturned:
		target = &ReturnedDetails{}
	case ActionAdminCorrection:
		target = &AdminCorrectionDetails{}
	default:
		return nil, fmt.Errorf("unknown audit action %q", action)
	}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(target); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", action, err)
		}
	}
	return deref(target), nil
}

func deref(d Details) Details {
	switch v := d.(type) {
	case *ProductCreatedDetails:
		return *v
	case *TransferRequestedDetails:
		return *v
	case *TransferReceivedDetails:
		return *v
	case *SoldDetails:
		return *v
	case *ReturnedDetails:
		return *v
	case *AdminCorrectionDetails:
		return *v
	}
	return d
}
