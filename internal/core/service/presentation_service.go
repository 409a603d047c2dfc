package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

type presentationService struct {
	repo   ports.PresentationRepository
	events ports.EventRepository
	sink   ports.EventSink
	log    zerolog.Logger
}

// NewPresentationService returns a PresentationService implementation.
func NewPresentationService(
	repo ports.PresentationRepository,
	events ports.EventRepository,
	sink ports.EventSink,
	log zerolog.Logger,
) ports.PresentationService {
	return &presentationService{repo: repo, events: events, sink: sink, log: log}
}

// Create schedules a presentation for an event owned by the caller.
func (s *presentationService) Create(ctx context.Context, caller domain.Claims, in ports.CreatePresentationInput) (*domain.Presentation, error) {
	if !caller.Role.ManagesEvents() {
		return nil, domain.Forbidden("Access denied. Only event managers can create presentations.")
	}
	if in.EventID == "" || in.StartsAt.IsZero() || strings.TrimSpace(in.Venue) == "" {
		return nil, domain.Validation("Missing required fields: eventId, startsAt or venue")
	}

	event, err := s.events.FindByID(ctx, in.EventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.NotFound(msgEventNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, "Presentation hasn't been created")
	}

	switch caller.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleEventManager:
		if event.OwnerID != caller.AccountID {
			return nil, domain.Forbidden("Access denied. You can only add presentations to your own events.")
		}
	default:
		return nil, domain.Forbidden("Access denied. Only event managers can create presentations.")
	}

	created, err := s.repo.Create(ctx, &domain.Presentation{
		EventID:   event.ID,
		StartsAt:  in.StartsAt.UTC(),
		Venue:     in.Venue,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, domain.Internal(err, "Presentation hasn't been created")
	}

	s.log.Info().Str("presentation_id", created.ID).Str("event_id", event.ID).Msg("presentation scheduled")
	emit(s.sink, domain.EntityPresentation, domain.ActionCreated, created.ID, caller.AccountID, created)
	return created, nil
}

func (s *presentationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Presentation, error) {
	list, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, domain.Internal(err, "Presentations not found")
	}
	if list == nil {
		list = []*domain.Presentation{}
	}
	return list, nil
}
