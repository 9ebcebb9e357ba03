package telemetry

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter used for business counters
const MeterName = "gadgetstock-backend/business"

// BusinessMetrics counts committed domain events. It is an event bus handler.
type BusinessMetrics struct {
	transfers     *Counter
	unitsSold     *Counter
	unitsAdded    *Counter
	stockMovement *UpDownCounter
	invoices      *Counter
	invoiceItems  *Counter
	returns       *Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)
	if m.transfers, err = NewCounter(meter, "gadgetstock.transfers", "Transfer lifecycle events", "{event}"); err != nil {
		return nil, err
	}
	if m.unitsSold, err = NewCounter(meter, "gadgetstock.units.sold", "Serialized units sold", "{unit}"); err != nil {
		return nil, err
	}
	if m.unitsAdded, err = NewCounter(meter, "gadgetstock.units.registered", "Serialized units registered", "{unit}"); err != nil {
		return nil, err
	}
	if m.stockMovement, err = NewUpDownCounter(meter, "gadgetstock.stock.movement", "Net accessory stock movement", "{item}"); err != nil {
		return nil, err
	}
	if m.invoices, err = NewCounter(meter, "gadgetstock.invoices", "Invoices issued", "{invoice}"); err != nil {
		return nil, err
	}
	if m.invoiceItems, err = NewCounter(meter, "gadgetstock.invoice.items", "Invoice lines issued", "{line}"); err != nil {
		return nil, err
	}
	if m.returns, err = NewCounter(meter, "gadgetstock.returns", "Returns recorded", "{return}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// EventTypes returns every event the counters track
func (m *BusinessMetrics) EventTypes() []string {
	return []string{
		transfer.EventTypeTransferRequested,
		transfer.EventTypeTransferReceived,
		transfer.EventTypeTransferStatusChanged,
		inventory.EventTypeUnitRegistered,
		inventory.EventTypeUnitSold,
		inventory.EventTypeStockChanged,
		trade.EventTypeInvoiceCreated,
		trade.EventTypeReturnCreated,
	}
}

// Handle updates the counter matching ev
func (m *BusinessMetrics) Handle(ctx context.Context, ev shared.DomainEvent) error {
	branch := attribute.String("branch_id", ev.BranchID().String())
	switch e := ev.(type) {
	case *transfer.Event:
		m.transfers.Inc(ctx,
			attribute.String("event", e.EventType()),
			attribute.String("kind", string(e.Kind)),
			attribute.String("status", string(e.Status)),
			branch)
	case *inventory.UnitRegisteredEvent:
		m.unitsAdded.Inc(ctx, branch)
	case *inventory.UnitSoldEvent:
		m.unitsSold.Inc(ctx, branch)
	case *inventory.StockChangedEvent:
		m.stockMovement.Add(ctx, e.Delta, branch)
	case *trade.InvoiceCreatedEvent:
		m.invoices.Inc(ctx, branch)
		m.invoiceItems.Add(ctx, int64(e.ItemCount), branch)
	case *trade.ReturnCreatedEvent:
		m.returns.Inc(ctx, branch)
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
