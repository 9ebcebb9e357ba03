package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeReturn  = "Return"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// ItemKind distinguishes invoice lines
type ItemKind string

const (
	ItemKindUnit      ItemKind = "UNIT"
	ItemKindFreebie   ItemKind = "FREEBIE"
	ItemKindAccessory ItemKind = "ACCESSORY"
)

// IsUnit reports whether the line references a serialized unit
func (k ItemKind) IsUnit() bool {
	return k == ItemKindUnit || k == ItemKindFreebie
}

// InvoiceItem is a line of an invoice
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Kind        ItemKind
	UnitID      *uuid.UUID
	AccessoryID *uuid.UUID
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	Returned    bool
}

// Invoice is a sale of units and accessories at a branch
type Invoice struct {
	shared.BaseAggregateRoot
	Number        string
	BranchID      uuid.UUID
	CustomerName  string
	CustomerPhone string
	Items         []InvoiceItem
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        InvoiceStatus
	CreatedByID   uuid.UUID
	CancelledAt   *time.Time
}

// GenerateInvoiceNumber builds a human readable number such as INV-20260115-4F2A9C
func GenerateInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// NewInvoice starts an empty invoice at a branch
func NewInvoice(number string, branchID, createdBy uuid.UUID, customerName, customerPhone string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice number cannot be empty")
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Customer name cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Branch ID cannot be empty")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		BranchID:          branchID,
		CustomerName:      customerName,
		CustomerPhone:     strings.TrimSpace(customerPhone),
		Items:             make([]InvoiceItem, 0),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusPending,
		CreatedByID:       createdBy,
	}, nil
}

// AddUnitItem adds a serialized unit. Freebies are always priced at zero.
func (i *Invoice) AddUnitItem(unitID uuid.UUID, kind ItemKind, price decimal.Decimal) (*InvoiceItem, error) {
	if !kind.IsUnit() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit items must be UNIT or FREEBIE")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit ID cannot be empty")
	}
	for _, it := range i.Items {
		if it.UnitID != nil && *it.UnitID == unitID {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit appears more than once on the invoice")
		}
	}
	if kind == ItemKindFreebie {
		price = decimal.Zero
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}
	id := unitID
	return i.addItem(InvoiceItem{Kind: kind, UnitID: &id, Quantity: 1, UnitPrice: price}), nil
}

// AddAccessoryItem adds a quantity of an accessory
func (i *Invoice) AddAccessoryItem(accessoryID uuid.UUID, quantity int64, price decimal.Decimal) (*InvoiceItem, error) {
	if accessoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Accessory ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be greater than zero")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}
	id := accessoryID
	return i.addItem(InvoiceItem{Kind: ItemKindAccessory, AccessoryID: &id, Quantity: quantity, UnitPrice: price}), nil
}

func (i *Invoice) addItem(item InvoiceItem) *InvoiceItem {
	item.ID = uuid.New()
	item.InvoiceID = i.ID
	item.Amount = item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
	i.Items = append(i.Items, item)
	i.TotalAmount = i.TotalAmount.Add(item.Amount)
	return &i.Items[len(i.Items)-1]
}

// Finalize validates the invoice and applies the initial payment
func (i *Invoice) Finalize(initialPayment decimal.Decimal) error {
	if len(i.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invoice must have at least one item")
	}
	if initialPayment.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Payment cannot be negative")
	}
	i.PaidAmount = initialPayment
	i.recalculateStatus()
	i.AddDomainEvent(NewInvoiceCreatedEvent(i))
	return nil
}

// RecordPayment adds a payment and recomputes the status
func (i *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Payment must be greater than zero")
	}
	switch i.Status {
	case InvoiceStatusCancelled:
		return shared.NewDomainError(shared.CodeInvalidState, "cannot pay a cancelled invoice")
	case InvoiceStatusPaid:
		return shared.NewDomainError(shared.CodeInvalidState, "Invoice is already paid")
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.recalculateStatus()
	i.Touch()
	return nil
}

// Cancel voids an unpaid invoice
func (i *Invoice) Cancel(at time.Time) error {
	if i.Status != InvoiceStatusPending || !i.PaidAmount.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("cannot cancel a %s invoice", strings.ToLower(strings.ReplaceAll(string(i.Status), "_", " "))))
	}
	for _, it := range i.Items {
		if it.Returned {
			return shared.NewDomainError(shared.CodeInvalidState, "cannot cancel an invoice with returned items")
		}
	}
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &at
	i.Touch()
	return nil
}

func (i *Invoice) recalculateStatus() {
	switch {
	case i.PaidAmount.IsZero():
		i.Status = InvoiceStatusPending
	case i.PaidAmount.LessThan(i.TotalAmount):
		i.Status = InvoiceStatusPartiallyPaid
	default:
		i.Status = InvoiceStatusPaid
	}
}

// Balance returns the amount still owed
func (i *Invoice) Balance() decimal.Decimal {
	b := i.TotalAmount.Sub(i.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// Item returns the line with the given id, or nil
func (i *Invoice) Item(id uuid.UUID) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == id {
			return &i.Items[idx]
		}
	}
	return nil
}

// UnitIDs returns the units referenced by the invoice
func (i *Invoice) UnitIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.Items))
	for _, it := range i.Items {
		if it.UnitID != nil {
			ids = append(ids, *it.UnitID)
		}
	}
	return ids
}
