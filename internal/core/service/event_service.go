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

const (
	msgCreateDenied    = "Access denied. Only event managers can create events."
	msgViewOwnOnly     = "Access denied. Event managers can only view their own events."
	msgListDenied      = "Access denied. Only event managers can view their own events."
	msgUpdateDenied    = "Access denied. Only event managers can update events."
	msgUpdateOwnOnly   = "Access denied. You can only update your own events."
	msgDeleteDenied    = "Access denied. Only event managers can delete events."
	msgDeleteOwnOnly   = "Access denied. You can only delete your own events."
	msgEventNotFound   = "Event not found"
	msgEventNotCreated = "Event hasn't been created"
)

type eventService struct {
	repo   ports.EventRepository
	events ports.EventSink
	log    zerolog.Logger
}

// NewEventService returns an EventService implementation. Superadmins bypass
// every ownership check.
func NewEventService(repo ports.EventRepository, events ports.EventSink, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, events: events, log: log}
}

func (s *eventService) AuthorizeCreate(caller domain.Claims) error {
	if !caller.Role.ManagesEvents() {
		return domain.Forbidden(msgCreateDenied)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, caller domain.Claims, in ports.CreateEventInput) (*domain.Event, error) {
	// The role check runs before field validation.
	if err := s.AuthorizeCreate(caller); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.BannerPhotoURL) == "" || in.IsPublic == nil {
		return nil, domain.Validation("Missing required fields: name, bannerPhotoUrl or isPublic")
	}
	isPublic, ok := in.IsPublic.(bool)
	if !ok {
		return nil, domain.Validation("isPublic must be a boolean")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Event{
		Name:           in.Name,
		BannerPhotoURL: in.BannerPhotoURL,
		IsPublic:       isPublic,
		OwnerID:        caller.AccountID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, domain.Internal(err, msgEventNotCreated)
	}

	s.log.Info().Str("event_id", created.ID).Str("owner_id", caller.AccountID).Msg("event created")
	emit(s.events, domain.EntityEvent, domain.ActionCreated, created.ID, caller.AccountID, created)
	return created, nil
}

func (s *eventService) FindByID(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.NotFound(msgEventNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, msgEventNotFound)
	}

	switch caller.Role {
	case domain.RoleSuperAdmin, domain.RoleUser:
		return event, nil
	case domain.RoleEventManager:
		if event.OwnerID != caller.AccountID {
			return nil, domain.Forbidden(msgViewOwnOnly)
		}
		return event, nil
	default:
		return nil, domain.Forbidden(msgViewOwnOnly)
	}
}

func (s *eventService) FindAll(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.Internal(err, "Events not found")
	}
	return events, nil
}

// FindByOwner lists an event-manager's events. An empty result is not an error.
func (s *eventService) FindByOwner(ctx context.Context, caller domain.Claims, ownerID string) ([]*domain.Event, error) {
	switch caller.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleEventManager:
		if ownerID != caller.AccountID {
			return nil, domain.Forbidden(msgViewOwnOnly)
		}
	case domain.RoleUser:
		return nil, domain.Forbidden(msgListDenied)
	default:
		return nil, domain.Forbidden(msgListDenied)
	}

	events, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, "Events not found")
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, caller domain.Claims, id string, patch domain.EventPatch) (*domain.Event, error) {
	if err := s.authorizeMutation(ctx, caller, id, msgUpdateDenied, msgUpdateOwnOnly); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.NotFound(msgEventNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, "Event hasn't been updated")
	}

	emit(s.events, domain.EntityEvent, domain.ActionUpdated, updated.ID, caller.AccountID, updated)
	return updated, nil
}

// Delete removes the event and returns it as it was before deletion.
func (s *eventService) Delete(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error) {
	if err := s.authorizeMutation(ctx, caller, id, msgDeleteDenied, msgDeleteOwnOnly); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.NotFound(msgEventNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, "Event hasn't been deleted")
	}

	s.log.Info().Str("event_id", id).Str("actor_id", caller.AccountID).Msg("event deleted")
	emit(s.events, domain.EntityEvent, domain.ActionDeleted, id, caller.AccountID, deleted)
	return deleted, nil
}

// authorizeMutation applies the shared update/delete rules. A missing event
// reads as "not yours" for event-managers so ids cannot be probed.
func (s *eventService) authorizeMutation(ctx context.Context, caller domain.Claims, id, roleMsg, ownMsg string) error {
	switch caller.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleEventManager:
		event, err := s.repo.FindByID(ctx, id)
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.Forbidden(ownMsg)
		}
		if err != nil {
			return domain.Internal(err, msgEventNotFound)
		}
		if event.OwnerID != caller.AccountID {
			return domain.Forbidden(ownMsg)
		}
		return nil
	case domain.RoleUser:
		return domain.Forbidden(roleMsg)
	default:
		return domain.Forbidden(roleMsg)
	}
}
