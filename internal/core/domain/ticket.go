package domain

import "time"

// Ticket is a purchased admission to a presentation. Tickets are cancelled,
// never deleted.
type Ticket struct {
	ID             string    `json:"id"`
	BuyDate        time.Time `json:"buyDate"`
	PresentationID string    `json:"presentationId"`
	UserID         string    `json:"userId"`
	Redeemed       bool      `json:"isRedeemed"`
	Active         bool      `json:"isActive"`
}
