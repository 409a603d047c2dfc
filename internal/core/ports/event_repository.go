package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// EventRepository handles event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) (*domain.Event, error)
}

// PresentationRepository handles presentation persistence.
type PresentationRepository interface {
	Create(ctx context.Context, p *domain.Presentation) (*domain.Presentation, error)
	FindByID(ctx context.Context, id string) (*domain.Presentation, error)
	FindByEvent(ctx context.Context, eventID string) ([]*domain.Presentation, error)
}
