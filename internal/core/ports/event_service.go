package ports

import (
	"context"
	"time"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// CreateEventInput is the DTO passed from the transport layer to EventService.
// IsPublic is left untyped so the role check can run before type validation.
type CreateEventInput struct {
	Name           string
	BannerPhotoURL string
	IsPublic       any
}

// EventService defines event use cases. Authorization decisions live here.
type EventService interface {
	// AuthorizeCreate reports whether caller may create events at all. It
	// needs no payload so transports can run it before decoding the body.
	AuthorizeCreate(caller domain.Claims) error
	Create(ctx context.Context, caller domain.Claims, in CreateEventInput) (*domain.Event, error)
	FindByID(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByOwner(ctx context.Context, caller domain.Claims, ownerID string) ([]*domain.Event, error)
	Update(ctx context.Context, caller domain.Claims, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error)
}

// CreatePresentationInput carries a new presentation.
type CreatePresentationInput struct {
	EventID  string
	StartsAt time.Time
	Venue    string
}

// PresentationService defines presentation use cases.
type PresentationService interface {
	Create(ctx context.Context, caller domain.Claims, in CreatePresentationInput) (*domain.Presentation, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Presentation, error)
}
