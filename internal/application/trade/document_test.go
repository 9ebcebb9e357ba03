package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/gadgetstock/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	doc *InvoiceDocument
	err error
}

func (r *stubRenderer) RenderInvoice(_ context.Context, doc *InvoiceDocument) ([]byte, error) {
	r.doc = doc
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + doc.Number), nil
}

func TestRenderInvoicePDF(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	s.AddStock(t, s.ShopA, 2)
	inv := sellAtShopA(t, f, unitItem(phone.ID, "499"), accessoryItem(s.Accessory.ID, 2, "12.5"))

	renderer := &stubRenderer{}
	objects := storage.NewMemoryObjectStorage()
	docs := NewDocumentService(s.Scope, renderer, objects, nil)

	obj, err := docs.RenderInvoicePDF(ctx, s.Actor(s.ShopA), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoices/"+inv.Number+".pdf", obj.Key)
	assert.Equal(t, "application/pdf", obj.ContentType)

	data, _, ok := objects.Get(obj.Key)
	require.True(t, ok)
	assert.Contains(t, string(data), inv.Number)

	doc := renderer.doc
	require.NotNil(t, doc)
	assert.Equal(t, s.ShopA.Name, doc.BranchName)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, s.ProductType.Name, doc.Lines[0].Description)
	assert.Equal(t, phone.Serial, doc.Lines[0].Serial)
	assert.Equal(t, s.Accessory.Name, doc.Lines[1].Description)
	assert.Equal(t, "524", doc.Total.String())
}

func TestRenderInvoicePDF_Errors(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	s.AddStock(t, s.ShopA, 1)
	inv := sellAtShopA(t, f, accessoryItem(s.Accessory.ID, 1, "10"))

	disabled := NewDocumentService(s.Scope, nil, nil, nil)
	_, err := disabled.RenderInvoicePDF(ctx, s.Actor(s.ShopA), inv.ID)
	require.Error(t, err)

	objects := storage.NewMemoryObjectStorage()
	docs := NewDocumentService(s.Scope, &stubRenderer{}, objects, nil)
	_, err = docs.RenderInvoicePDF(ctx, s.Actor(s.ShopB), inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	boom := errors.New("chrome went away")
	failing := NewDocumentService(s.Scope, &stubRenderer{err: boom}, objects, nil)
	_, err = failing.RenderInvoicePDF(ctx, s.Actor(s.ShopA), inv.ID)
	assert.ErrorIs(t, err, boom)
	_, _, ok := objects.Get("invoices/" + inv.Number + ".pdf")
	assert.False(t, ok)
}
