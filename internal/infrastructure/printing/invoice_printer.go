package printing

import (
	"context"
	_ "embed"
	"html/template"
	"time"

	apptrade "github.com/gadgetstock/backend/internal/application/trade"
	"go.uber.org/zap"
)

//go:embed templates/invoice.html
var invoiceTemplate string

// invoiceView is the data bound to the invoice template
type invoiceView struct {
	*apptrade.InvoiceDocument
	BusinessName string
}

// InvoicePrinter renders invoices to PDF: HTML from the embedded template,
// then PDF from the renderer.
type InvoicePrinter struct {
	engine       *TemplateEngine
	tmpl         *template.Template
	renderer     PDFRenderer
	businessName string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewInvoicePrinter parses the invoice template once
func NewInvoicePrinter(engine *TemplateEngine, renderer PDFRenderer, businessName string, timeout time.Duration, logger *zap.Logger) (*InvoicePrinter, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := engine.Parse("invoice", invoiceTemplate, nil)
	if err != nil {
		return nil, err
	}
	return &InvoicePrinter{
		engine:       engine,
		tmpl:         tmpl,
		renderer:     renderer,
		businessName: businessName,
		timeout:      timeout,
		logger:       logger,
	}, nil
}

// RenderHTML produces the invoice page
func (p *InvoicePrinter) RenderHTML(doc *apptrade.InvoiceDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}
	return p.engine.Execute(p.tmpl, invoiceView{InvoiceDocument: doc, BusinessName: p.businessName})
}

// RenderInvoice implements the application's invoice renderer port
func (p *InvoicePrinter) RenderInvoice(ctx context.Context, doc *apptrade.InvoiceDocument) ([]byte, error) {
	html, err := p.RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	res, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:    html,
		Title:   "Invoice " + doc.Number,
		Timeout: p.timeout,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Invoice PDF rendered",
		zap.String("number", doc.Number),
		zap.Int("bytes", len(res.PDFData)),
		zap.Duration("duration", res.RenderDuration))
	return res.PDFData, nil
}

// Close releases the underlying renderer
func (p *InvoicePrinter) Close() error {
	return p.renderer.Close()
}
