package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// emit hands a domain event to the sink. A nil sink disables publishing.
func emit(sink ports.EventSink, entity, action, entityID, actorID string, payload any) {
	if sink == nil {
		return
	}
	sink.Enqueue(domain.DomainEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
}
