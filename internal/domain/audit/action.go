package audit

// Action is the kind of state-changing event recorded for a unit
type Action string

const (
	ActionProductCreated    Action = "PRODUCT_CREATED"
	ActionTransferRequested Action = "TRANSFER_REQUESTED"
	ActionTransferReceived  Action = "TRANSFER_RECEIVED"
	ActionSold              Action = "SOLD"
	ActionReturned          Action = "RETURNED"
	ActionAdminCorrection   Action = "ADMIN_CORRECTION"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionProductCreated, ActionTransferRequested, ActionTransferReceived,
		ActionSold, ActionReturned, ActionAdminCorrection:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}
