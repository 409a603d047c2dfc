package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// RegisterInput carries the signup payload. Role defaults to user when empty
// and Active defaults to true when nil.
type RegisterInput struct {
	Name     string
	LastName string
	Email    string
	Password string
	Role     string
	Active   *bool
}

// AccountListing is the result of GET /user: superadmins get every active
// account, everyone else gets their own.
type AccountListing struct {
	Accounts []*domain.Account
	Self     *domain.Account
}

// AccountService defines account use cases.
type AccountService interface {
	// Register creates an account. caller is nil for anonymous signups.
	Register(ctx context.Context, caller *domain.Claims, in RegisterInput) (*domain.Account, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, error)
	ListOrSelf(ctx context.Context, caller domain.Claims) (*AccountListing, error)
	// Update and Deactivate record caller as the actor of the change.
	Update(ctx context.Context, caller domain.Claims, email string, patch domain.AccountPatch) (*domain.Account, error)
	Deactivate(ctx context.Context, caller domain.Claims, email string) error
}
