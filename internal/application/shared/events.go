package shared

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/shared"
)

// EventSource is an aggregate that collected domain events while it was mutated
type EventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// PublishEvents publishes and clears the events of the sources followed by the
// extra events. It must only be called after the surrounding transaction committed.
// Handler failures are logged by the bus and do not affect the caller.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, sources []EventSource, extra ...shared.DomainEvent) {
	var events []shared.DomainEvent
	for _, s := range sources {
		if s == nil {
			continue
		}
		events = append(events, s.GetDomainEvents()...)
		s.ClearDomainEvents()
	}
	events = append(events, extra...)
	if publisher == nil || len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
}
