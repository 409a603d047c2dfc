package domain

import "time"

// DomainEvent is a fact about a state change, published after the change has
// been stored. Entity and Action form the subject, e.g. ticket.cancelled.
type DomainEvent struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

const (
	EntityAccount      = "account"
	EntityEvent        = "event"
	EntityPresentation = "presentation"
	EntityTicket       = "ticket"
)

const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionDeactivated = "deactivated"
	ActionPurchased   = "purchased"
	ActionCancelled   = "cancelled"
	ActionRedeemed    = "redeemed"
)
