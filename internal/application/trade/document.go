package trade

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceDocument is everything a printed invoice shows
type InvoiceDocument struct {
	Number        string
	IssuedAt      time.Time
	BranchName    string
	CustomerName  string
	CustomerPhone string
	Lines         []DocumentLine
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Balance       decimal.Decimal
	Status        string
}

// DocumentLine is one printed invoice line
type DocumentLine struct {
	Description string
	Serial      string
	Kind        string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceRenderer turns an invoice document into a PDF
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// DocumentService prints invoices and stores the result
type DocumentService struct {
	scope    appshared.TransactionScope
	renderer InvoiceRenderer
	storage  appshared.ObjectStorage
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService. A nil renderer or storage
// disables printing.
func NewDocumentService(scope appshared.TransactionScope, renderer InvoiceRenderer, storage appshared.ObjectStorage, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{scope: scope, renderer: renderer, storage: storage, logger: logger}
}

// RenderInvoicePDF prints an invoice visible to the actor and returns a download link
func (s *DocumentService) RenderInvoicePDF(ctx context.Context, actor access.Actor, id uuid.UUID) (*appshared.StoredObject, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	if s.renderer == nil || s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Invoice printing is not enabled")
	}

	repos := s.scope.Repositories()
	inv, err := repos.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrInvoiceNotFound)
	}
	if !actor.CanSee(inv.BranchID) {
		return nil, ErrInvoiceNotFound
	}
	doc, err := BuildInvoiceDocument(ctx, repos, inv)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	obj, err := appshared.StoreDocument(ctx, s.storage, "invoices/"+inv.Number+".pdf", "application/pdf", pdf)
	if err != nil {
		return nil, fmt.Errorf("store invoice %s: %w", inv.Number, err)
	}
	logger.WithLogger(ctx, s.logger).Info("Invoice rendered",
		zap.String("number", inv.Number),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return obj, nil
}

// BuildInvoiceDocument resolves the names a printed invoice needs
func BuildInvoiceDocument(ctx context.Context, repos appshared.Repositories, inv *trade.Invoice) (*InvoiceDocument, error) {
	b, err := repos.Branches().FindByID(ctx, inv.BranchID)
	if err != nil {
		return nil, err
	}
	units, err := repos.Units().FindByIDs(ctx, inv.UnitIDs())
	if err != nil {
		return nil, err
	}
	var accessoryIDs, productTypeIDs []uuid.UUID
	for _, it := range inv.Items {
		if it.AccessoryID != nil {
			accessoryIDs = append(accessoryIDs, *it.AccessoryID)
		}
	}
	for _, u := range units {
		productTypeIDs = append(productTypeIDs, u.ProductTypeID)
	}
	accessories, err := repos.Catalog().FindAccessories(ctx, accessoryIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(productTypeIDs))
	for _, ptID := range productTypeIDs {
		if _, ok := names[ptID]; ok {
			continue
		}
		if pt, err := repos.Catalog().FindProductType(ctx, ptID); err == nil {
			names[ptID] = pt.Name
		}
	}

	doc := &InvoiceDocument{
		Number:        inv.Number,
		IssuedAt:      inv.CreatedAt,
		BranchName:    b.Name,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Lines:         make([]DocumentLine, 0, len(inv.Items)),
		Total:         inv.TotalAmount,
		Paid:          inv.PaidAmount,
		Balance:       inv.Balance(),
		Status:        string(inv.Status),
	}
	for _, it := range inv.Items {
		line := DocumentLine{
			Kind:      string(it.Kind),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		}
		switch {
		case it.UnitID != nil:
			if u, ok := units[*it.UnitID]; ok {
				line.Description = names[u.ProductTypeID]
				line.Serial = u.Serial
			}
		case it.AccessoryID != nil:
			if a, ok := accessories[*it.AccessoryID]; ok {
				line.Description = a.Name
			}
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}
