package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// BuyTicketInput carries a purchase request.
type BuyTicketInput struct {
	PresentationID string
	UserID         string
	// IdempotencyKey is optional. A repeated key returns the first ticket.
	IdempotencyKey string
}

// PurchaseResult is returned by Buy.
type PurchaseResult struct {
	Ticket *domain.Ticket
	// Replayed is true when the Idempotency-Key matched an earlier purchase.
	Replayed bool
}

// TicketService defines ticket use cases.
type TicketService interface {
	Buy(ctx context.Context, caller domain.Claims, in BuyTicketInput) (*PurchaseResult, error)
	Get(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	Cancel(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	Redeem(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, caller domain.Claims, userID string) ([]*domain.Ticket, error)
}
