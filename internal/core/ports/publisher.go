package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// EventSink accepts domain events without blocking the caller.
type EventSink interface {
	Enqueue(event domain.DomainEvent)
}

// EventPublisher delivers a single domain event to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}
