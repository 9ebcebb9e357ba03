package inventory

import (
	"regexp"
	"strings"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Condition of a serialized unit
type Condition string

const (
	ConditionBrandNew   Condition = "BRAND_NEW"
	ConditionSecondHand Condition = "SECOND_HAND"
)

// IsValid checks if the condition is known
func (c Condition) IsValid() bool {
	return c == ConditionBrandNew || c == ConditionSecondHand
}

// Availability of a serialized unit
type Availability string

const (
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilitySold      Availability = "SOLD"
)

// IsValid checks if the availability is known
func (a Availability) IsValid() bool {
	return a == AvailabilityAvailable || a == AvailabilitySold
}

// SerialLength is the number of digits of a unit serial (IMEI)
const SerialLength = 15

var serialPattern = regexp.MustCompile(`^[0-9]{15}$`)

// ValidSerial reports whether s is a 15-digit numeric serial
func ValidSerial(s string) bool {
	return serialPattern.MatchString(s)
}

// Unit is one serialized inventory item. It belongs to exactly one branch at a time.
type Unit struct {
	shared.BaseAggregateRoot
	ProductTypeID uuid.UUID
	Color         string
	Memory        string
	Serial        string
	Condition     Condition
	Availability  Availability
	BranchID      uuid.UUID
}

// NewUnit registers a new available unit at a branch (warehouse intake)
func NewUnit(productTypeID, branchID uuid.UUID, serial, color, memory string, condition Condition) (*Unit, error) {
	serial = strings.TrimSpace(serial)
	if productTypeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product type ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Branch ID cannot be empty")
	}
	if !ValidSerial(serial) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Serial must be exactly 15 digits")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid unit condition")
	}

	u := &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductTypeID:     productTypeID,
		Color:             strings.TrimSpace(color),
		Memory:            strings.TrimSpace(memory),
		Serial:            serial,
		Condition:         condition,
		Availability:      AvailabilityAvailable,
		BranchID:          branchID,
	}
	u.AddDomainEvent(NewUnitRegisteredEvent(u))
	return u, nil
}

// IsAvailable reports whether the unit can be transferred or sold
func (u *Unit) IsAvailable() bool {
	return u.Availability == AvailabilityAvailable
}

// IsAt reports whether the unit is currently held by the branch
func (u *Unit) IsAt(branchID uuid.UUID) bool {
	return u.BranchID == branchID
}

// MoveTo reassigns custody. Only transfer receipt and return handling call this.
func (u *Unit) MoveTo(branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Branch ID cannot be empty")
	}
	if !u.IsAvailable() {
		return shared.NewDomainError(shared.CodeInvalidState, "Unit is not available")
	}
	u.BranchID = branchID
	u.Touch()
	return nil
}

// MarkSold transitions the unit from Available to Sold
func (u *Unit) MarkSold() error {
	if !u.IsAvailable() {
		return shared.NewDomainError(shared.CodeInvalidState, "Unit "+u.Serial+" is not available")
	}
	u.Availability = AvailabilitySold
	u.Touch()
	u.AddDomainEvent(NewUnitSoldEvent(u))
	return nil
}

// Restore brings a sold unit back to Available at the given branch (repair return,
// cancelled invoice).
func (u *Unit) Restore(branchID uuid.UUID) error {
	if u.Availability != AvailabilitySold {
		return shared.NewDomainError(shared.CodeInvalidState, "Only sold units can be restored")
	}
	u.Availability = AvailabilityAvailable
	u.BranchID = branchID
	u.Touch()
	return nil
}

// Correction holds the fields an administrator may overwrite directly
type Correction struct {
	Color     *string
	Memory    *string
	Condition *Condition
	BranchID  *uuid.UUID
}

// ApplyCorrection overwrites attributes outside of the transfer flow.
// It returns the previous branch when the branch was changed.
func (u *Unit) ApplyCorrection(c Correction) (previousBranch uuid.UUID, moved bool, err error) {
	if c.Condition != nil && !c.Condition.IsValid() {
		return uuid.Nil, false, shared.NewDomainError(shared.CodeInvalidInput, "Invalid unit condition")
	}
	if c.Color != nil {
		u.Color = strings.TrimSpace(*c.Color)
	}
	if c.Memory != nil {
		u.Memory = strings.TrimSpace(*c.Memory)
	}
	if c.Condition != nil {
		u.Condition = *c.Condition
	}
	if c.BranchID != nil && *c.BranchID != uuid.Nil && *c.BranchID != u.BranchID {
		previousBranch = u.BranchID
		u.BranchID = *c.BranchID
		moved = true
	}
	u.Touch()
	return previousBranch, moved, nil
}
