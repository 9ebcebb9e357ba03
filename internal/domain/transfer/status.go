package transfer

import "strings"

// Status represents the lifecycle state of a transfer
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Label is the lower-case form used in messages ("cannot receive a cancelled transfer")
func (s Status) Label() string {
	return strings.ToLower(string(s))
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Approval is optional: a pending transfer may be received directly.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected ||
			target == StatusCancelled || target == StatusCompleted
	case StatusApproved:
		return target == StatusRejected || target == StatusCancelled || target == StatusCompleted
	case StatusCompleted, StatusRejected, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// ParseStatus parses a status case-insensitively
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.IsValid()
}
