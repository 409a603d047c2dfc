package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

const (
	msgTicketNotFound   = "Ticket not found"
	msgTicketNotCreated = "Ticket hasn't been created"
	msgTicketForbidden  = "Access denied. You can only access your own tickets."
	msgPurchaseInFlight = "A purchase with this Idempotency-Key is already in progress"
	msgKeyReused        = "Idempotency-Key was already used for a different purchase"
)

type ticketService struct {
	repo          ports.TicketRepository
	presentations ports.PresentationRepository
	idem          ports.IdempotencyStore
	sink          ports.EventSink
	log           zerolog.Logger
}

// NewTicketService returns a TicketService implementation. idem may be nil,
// in which case Idempotency-Key headers are ignored.
func NewTicketService(
	repo ports.TicketRepository,
	presentations ports.PresentationRepository,
	idem ports.IdempotencyStore,
	sink ports.EventSink,
	log zerolog.Logger,
) ports.TicketService {
	return &ticketService{repo: repo, presentations: presentations, idem: idem, sink: sink, log: log}
}

// Buy issues a new ticket. When an idempotency key is given and was already
// used by the same caller, the first ticket is returned instead.
func (s *ticketService) Buy(ctx context.Context, caller domain.Claims, in ports.BuyTicketInput) (*ports.PurchaseResult, error) {
	if in.PresentationID == "" || in.UserID == "" {
		return nil, domain.Validation("Missing required fields: presentationId or userId")
	}

	switch caller.Role {
	case domain.RoleSuperAdmin, domain.RoleEventManager:
	case domain.RoleUser:
		if !caller.Is(in.UserID) {
			return nil, domain.Forbidden("Access denied. You can only buy tickets for yourself.")
		}
	default:
		return nil, domain.Forbidden("Access denied. You can only buy tickets for yourself.")
	}

	if _, err := s.presentations.FindByID(ctx, in.PresentationID); err != nil {
		if errors.Is(err, domain.ErrPresentationNotFound) {
			return nil, domain.NotFound("Presentation not found")
		}
		return nil, domain.Internal(err, msgTicketNotCreated)
	}

	idemKey := s.idempotencyKey(caller, in.IdempotencyKey)
	if idemKey != "" {
		replay, reserved, err := s.reserve(ctx, idemKey, in)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return &ports.PurchaseResult{Ticket: replay, Replayed: true}, nil
		}
		if !reserved {
			idemKey = ""
		}
	}

	created, err := s.repo.Create(ctx, &domain.Ticket{
		BuyDate:        time.Now().UTC(),
		PresentationID: in.PresentationID,
		UserID:         in.UserID,
		Redeemed:       false,
		Active:         true,
	})
	if err != nil {
		if idemKey != "" {
			if rerr := s.idem.Release(ctx, idemKey); rerr != nil {
				s.log.Warn().Err(rerr).Msg("failed to release idempotency key")
			}
		}
		return nil, domain.Internal(err, msgTicketNotCreated)
	}

	if idemKey != "" {
		if err := s.idem.Remember(ctx, idemKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("ticket_id", created.ID).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("ticket_id", created.ID).Str("user_id", in.UserID).Msg("ticket purchased")
	emit(s.sink, domain.EntityTicket, domain.ActionPurchased, created.ID, caller.AccountID, created)
	return &ports.PurchaseResult{Ticket: created}, nil
}

// idempotencyKey scopes a client key to the caller so two accounts can never
// collide on the same value.
func (s *ticketService) idempotencyKey(caller domain.Claims, key string) string {
	if s.idem == nil || key == "" {
		return ""
	}
	return caller.AccountID + ":" + key
}

// reserve claims key for this purchase. It returns the earlier ticket when the
// key was already used for the same presentation and user, and reserved
// reports whether the caller now owns the key. Store failures are logged and
// the purchase goes ahead unprotected.
func (s *ticketService) reserve(ctx context.Context, key string, in ports.BuyTicketInput) (*domain.Ticket, bool, error) {
	ticketID, reserved, err := s.idem.Reserve(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency reserve failed, buying anyway")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}
	if ticketID == "" {
		return nil, false, domain.Conflict(msgPurchaseInFlight)
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		// the key is ours to repoint once the new ticket exists
		s.log.Warn().Err(err).Str("ticket_id", ticketID).Msg("idempotent ticket vanished, buying anyway")
		return nil, true, nil
	}
	if ticket.PresentationID != in.PresentationID || ticket.UserID != in.UserID {
		return nil, false, domain.Conflict(msgKeyReused)
	}
	s.log.Info().Str("ticket_id", ticketID).Msg("idempotent replay")
	return ticket, false, nil
}

func (s *ticketService) Get(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, id, "Error retrieving ticket")
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, ticket, "Error retrieving ticket"); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Cancel deactivates a ticket. Cancelling an already cancelled ticket returns
// it unchanged without touching the store.
func (s *ticketService) Cancel(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, id, "Error canceling ticket")
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, ticket, "Error canceling ticket"); err != nil {
		return nil, err
	}
	if !ticket.Active {
		return ticket, nil
	}

	cancelled, err := s.repo.Cancel(ctx, id)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return nil, domain.NotFound(msgTicketNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, "Error canceling ticket")
	}

	s.log.Info().Str("ticket_id", id).Str("actor_id", caller.AccountID).Msg("ticket cancelled")
	emit(s.sink, domain.EntityTicket, domain.ActionCancelled, id, caller.AccountID, cancelled)
	return cancelled, nil
}

// Redeem marks a ticket as used at the door. Only the managing event-manager
// or a superadmin may redeem; cancelled tickets are refused.
func (s *ticketService) Redeem(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, id, "Error redeeming ticket")
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleSuperAdmin, domain.RoleEventManager:
		if err := s.authorize(ctx, caller, ticket, "Error redeeming ticket"); err != nil {
			return nil, err
		}
	case domain.RoleUser:
		return nil, domain.Forbidden("Access denied. Only event managers can redeem tickets.")
	default:
		return nil, domain.Forbidden("Access denied. Only event managers can redeem tickets.")
	}

	if !ticket.Active {
		return nil, domain.Conflict("Ticket has been canceled")
	}
	if ticket.Redeemed {
		return ticket, nil
	}

	redeemed, err := s.repo.Redeem(ctx, id)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return nil, domain.NotFound(msgTicketNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, "Error redeeming ticket")
	}
	// A concurrent cancel may have won the conditional update.
	if !redeemed.Active {
		return nil, domain.Conflict("Ticket has been canceled")
	}

	emit(s.sink, domain.EntityTicket, domain.ActionRedeemed, id, caller.AccountID, redeemed)
	return redeemed, nil
}

// ListByUser returns a purchaser's tickets. An empty set is reported as not
// found.
func (s *ticketService) ListByUser(ctx context.Context, caller domain.Claims, userID string) ([]*domain.Ticket, error) {
	switch caller.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleEventManager, domain.RoleUser:
		if !caller.Is(userID) {
			return nil, domain.Forbidden(msgTicketForbidden)
		}
	default:
		return nil, domain.Forbidden(msgTicketForbidden)
	}

	tickets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "Error retrieving tickets")
	}
	if len(tickets) == 0 {
		return nil, domain.NotFound("No tickets found for this user")
	}
	return tickets, nil
}

func (s *ticketService) load(ctx context.Context, id, failMsg string) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return nil, domain.NotFound(msgTicketNotFound)
	}
	if err != nil {
		return nil, domain.Internal(err, failMsg)
	}
	return ticket, nil
}

// authorize applies the per-role ticket access rule: users see their own
// purchases, event-managers see tickets for events they own.
func (s *ticketService) authorize(ctx context.Context, caller domain.Claims, ticket *domain.Ticket, failMsg string) error {
	switch caller.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleUser:
		if !caller.Is(ticket.UserID) {
			return domain.Forbidden(msgTicketForbidden)
		}
		return nil
	case domain.RoleEventManager:
		managed, err := s.repo.IsManagedBy(ctx, ticket.ID, caller.AccountID)
		if err != nil {
			return domain.Internal(err, failMsg)
		}
		if !managed {
			return domain.Forbidden("Access denied. You can only access tickets for your own events.")
		}
		return nil
	default:
		return domain.Forbidden(msgTicketForbidden)
	}
}
