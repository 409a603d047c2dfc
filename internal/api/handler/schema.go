package handler

import (
	"time"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// errorResponse is the envelope returned on every 4xx/5xx response.
type errorResponse struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Accounts ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Presence of email and password is checked by the service so the message
// matches the login error; only format is checked here.
type registerRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	LastName string `json:"lastname" validate:"max=100"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

type updateAccountRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"lastname"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (r updateAccountRequest) toPatch() domain.AccountPatch {
	p := domain.AccountPatch{Name: r.Name, LastName: r.LastName, Active: r.IsActive}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		p.Role = &role
	}
	return p
}

// --- Events ---

// IsPublic stays untyped so a non-boolean reaches the service, which reports
// it after the role check.
type createEventRequest struct {
	Name           string `json:"name"`
	BannerPhotoURL string `json:"bannerPhotoUrl"`
	IsPublic       any    `json:"isPublic" swaggertype:"boolean"`
}

type updateEventRequest struct {
	Name           *string `json:"name"`
	BannerPhotoURL *string `json:"bannerPhotoUrl"`
	IsPublic       *bool   `json:"isPublic"`
}

// --- Presentations ---

type createPresentationRequest struct {
	EventID  string    `json:"eventId"`
	StartsAt time.Time `json:"startsAt"`
	Venue    string    `json:"venue" validate:"max=200"`
}

// --- Tickets ---

type buyTicketRequest struct {
	PresentationID string `json:"presentationId"`
	UserID         string `json:"userId"`
}

type cancelTicketResponse struct {
	Message string         `json:"message"`
	Ticket  *domain.Ticket `json:"ticket"`
}
