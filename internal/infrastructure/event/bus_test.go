package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func (h *recordingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, ev)
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func stockChanged() shared.DomainEvent {
	return inventory.NewStockChangedEvent(uuid.New(), uuid.New(), 3)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{inventory.EventTypeStockChanged}}
	other := &recordingHandler{eventTypes: []string{inventory.EventTypeUnitSold}}
	bus.Subscribe(handler)
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), stockChanged(), stockChanged()))

	assert.Equal(t, 2, handler.count())
	assert.Equal(t, 0, other.count())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	wildcard := &recordingHandler{}
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), stockChanged()))
	assert.Equal(t, 1, wildcard.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{err: errors.New("handler error")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, inventory.EventTypeStockChanged)
	bus.Subscribe(panicking, inventory.EventTypeStockChanged)
	bus.Subscribe(healthy, inventory.EventTypeStockChanged)

	err := bus.Publish(context.Background(), stockChanged())

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, inventory.EventTypeStockChanged)

	_ = bus.Publish(context.Background(), stockChanged())
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), stockChanged())

	assert.Equal(t, 1, handler.count())
	assert.Empty(t, bus.registry.GetHandlers(inventory.EventTypeStockChanged))
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
