package domain

import "time"

// Presentation is a scheduled showing of an event. Tickets are sold per
// presentation.
type Presentation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	StartsAt  time.Time `json:"startsAt"`
	Venue     string    `json:"venue"`
	CreatedAt time.Time `json:"createdAt"`
}
