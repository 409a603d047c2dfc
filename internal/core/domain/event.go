package domain

import "time"

// Event is something people buy tickets for. OwnerID is the event-manager
// that created it and never changes afterwards.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BannerPhotoURL string    `json:"bannerPhotoUrl"`
	IsPublic       bool      `json:"isPublic"`
	OwnerID        string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EventPatch carries the mutable event fields. Nil means unchanged.
type EventPatch struct {
	Name           *string
	BannerPhotoURL *string
	IsPublic       *bool
}
