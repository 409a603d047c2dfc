package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// TicketRepository handles ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)
	// Cancel flips isActive to false only if it is still true and returns the
	// ticket as stored afterwards.
	Cancel(ctx context.Context, id string) (*domain.Ticket, error)
	// Redeem flips isRedeemed to true only for active, unredeemed tickets and
	// returns the ticket as stored afterwards.
	Redeem(ctx context.Context, id string) (*domain.Ticket, error)
	// IsManagedBy reports whether the ticket belongs to a presentation of an
	// event owned by managerID.
	IsManagedBy(ctx context.Context, ticketID, managerID string) (bool, error)
}

// IdempotencyStore remembers which ticket a purchase key produced.
type IdempotencyStore interface {
	// Reserve claims key for a new purchase. When the key is already taken
	// reserved is false and ticketID holds the stored ticket, or is empty
	// while the first purchase is still in flight.
	Reserve(ctx context.Context, key string) (ticketID string, reserved bool, err error)
	// Remember points a reserved key at the ticket it produced.
	Remember(ctx context.Context, key, ticketID string) error
	// Release frees a reserved key after a failed purchase.
	Release(ctx context.Context, key string) error
}
