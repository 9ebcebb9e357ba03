package printing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apptrade "github.com/gadgetstock/backend/internal/application/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDFRenderer struct {
	last   *RenderRequest
	err    error
	closed bool
}

func (f *fakePDFRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.7"), RenderDuration: time.Millisecond}, nil
}

func (f *fakePDFRenderer) Close() error {
	f.closed = true
	return nil
}

func sampleDocument() *apptrade.InvoiceDocument {
	return &apptrade.InvoiceDocument{
		Number:       "INV-20260314-ABC123",
		IssuedAt:     time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC),
		BranchName:   "Shop A",
		CustomerName: "dana <script>",
		Lines: []apptrade.DocumentLine{
			{Description: "Phone X", Serial: "356938035643809", Kind: "UNIT", Quantity: 1,
				UnitPrice: decimal.RequireFromString("1499"), Amount: decimal.RequireFromString("1499")},
			{Description: "Case", Kind: "FREEBIE", Quantity: 1},
		},
		Total:   decimal.RequireFromString("1499"),
		Paid:    decimal.RequireFromString("500"),
		Balance: decimal.RequireFromString("999"),
		Status:  "PARTIALLY_PAID",
	}
}

func TestFormatMoneyRaw(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"1234.567", "1,234.57"},
		{"-1000000", "-1,000,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoneyRaw(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Partially Paid", statusText("PARTIALLY_PAID"))
	assert.Equal(t, "Cancelled", statusText("CANCELLED"))
}

func TestTemplateEngine_RenderString(t *testing.T) {
	e := NewTemplateEngine(WithCurrencySymbol("$"))
	out, err := e.RenderString("t", `{{formatMoney .}}`, decimal.NewFromInt(2500))
	require.NoError(t, err)
	assert.Equal(t, "$2,500.00", out)

	_, err = e.RenderString("empty", "  ", nil)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeTemplate, re.Code)

	_, err = e.RenderString("broken", "{{.Missing", nil)
	require.ErrorAs(t, err, &re)
}

func TestInvoicePrinter_RenderHTML(t *testing.T) {
	p, err := NewInvoicePrinter(NewTemplateEngine(WithCurrencySymbol("$")), &fakePDFRenderer{}, "Gadget Stock", time.Second, nil)
	require.NoError(t, err)

	html, err := p.RenderHTML(sampleDocument())
	require.NoError(t, err)
	assert.Contains(t, html, "Gadget Stock")
	assert.Contains(t, html, "INV-20260314-ABC123")
	assert.Contains(t, html, "2026-03-14 10:05")
	assert.Contains(t, html, "$1,499.00")
	assert.Contains(t, html, "$999.00")
	assert.Contains(t, html, "Partially Paid")
	assert.Contains(t, html, "356938035643809")
	assert.Contains(t, html, "(free)")
	assert.NotContains(t, html, "<script>")
}

func TestInvoicePrinter_RenderInvoice(t *testing.T) {
	fake := &fakePDFRenderer{}
	p, err := NewInvoicePrinter(nil, fake, "Gadget Stock", 5*time.Second, nil)
	require.NoError(t, err)

	pdf, err := p.RenderInvoice(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	require.NotNil(t, fake.last)
	assert.Equal(t, "Invoice INV-20260314-ABC123", fake.last.Title)
	assert.Equal(t, 5*time.Second, fake.last.Timeout)

	fake.err = NewRenderError(ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded)
	_, err = p.RenderInvoice(context.Background(), sampleDocument())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, p.Close())
	assert.True(t, fake.closed)
}

func TestCompleteHTML(t *testing.T) {
	wrapped := completeHTML(&RenderRequest{HTML: "<p>hi</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, "A &amp; B")

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))
}

func TestChromedpRenderer_EmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{RemoteURL: "ws://127.0.0.1:1"})
	defer r.Close()
	_, err := r.Render(context.Background(), &RenderRequest{})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)
}
