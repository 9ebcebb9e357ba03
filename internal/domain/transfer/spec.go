package transfer

import (
	"strings"

	"github.com/google/uuid"
)

// Direction selects transfers relative to the caller's branch
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	DirectionAll      Direction = "all"
)

// ParseDirection parses a direction, defaulting to all for an empty string
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DirectionAll, true
	case DirectionIncoming, DirectionOutgoing, DirectionAll:
		return d, true
	}
	return "", false
}

// Spec is a composable predicate over transfer requests. The persistence layer
// translates it to SQL; Matches evaluates the same predicate in memory.
type Spec interface {
	Matches(r *Request) bool
}

// StatusIs matches one status
type StatusIs struct{ Status Status }

// StatusNot excludes one status
type StatusNot struct{ Status Status }

// FromBranch matches transfers leaving a branch
type FromBranch struct{ BranchID uuid.UUID }

// ToBranch matches transfers arriving at a branch
type ToBranch struct{ BranchID uuid.UUID }

// And matches when every child matches. An empty And matches everything.
type And []Spec

// Or matches when any child matches. An empty Or matches nothing.
type Or []Spec

func (s StatusIs) Matches(r *Request) bool   { return r.Status == s.Status }
func (s StatusNot) Matches(r *Request) bool  { return r.Status != s.Status }
func (s FromBranch) Matches(r *Request) bool { return r.FromBranchID == s.BranchID }
func (s ToBranch) Matches(r *Request) bool   { return r.ToBranchID == s.BranchID }

func (s And) Matches(r *Request) bool {
	for _, c := range s {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

func (s Or) Matches(r *Request) bool {
	for _, c := range s {
		if c.Matches(r) {
			return true
		}
	}
	return false
}

// Incoming matches transfers addressed to the branch
func Incoming(branchID uuid.UUID) Spec { return ToBranch{BranchID: branchID} }

// Outgoing matches transfers sent by the branch
func Outgoing(branchID uuid.UUID) Spec { return FromBranch{BranchID: branchID} }

// Either matches transfers on either end of the branch
func Either(branchID uuid.UUID) Spec { return Or{Incoming(branchID), Outgoing(branchID)} }

// Query is the list request for either transfer flavour
type Query struct {
	Direction Direction
	Status    *Status
	StatusNot *Status
	Page      int
	PageSize  int
}

// BuildSpec composes the predicate for a branch. When unscoped is true (admin
// branch listing everything) the direction "all" does not restrict by branch.
func (q Query) BuildSpec(branchID uuid.UUID, unscoped bool) Spec {
	spec := And{}
	switch q.Direction {
	case DirectionIncoming:
		spec = append(spec, Incoming(branchID))
	case DirectionOutgoing:
		spec = append(spec, Outgoing(branchID))
	default:
		if !unscoped {
			spec = append(spec, Either(branchID))
		}
	}
	if q.Status != nil {
		spec = append(spec, StatusIs{Status: *q.Status})
	}
	if q.StatusNot != nil {
		spec = append(spec, StatusNot{Status: *q.StatusNot})
	}
	return spec
}
