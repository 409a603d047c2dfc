package ports

import (
	"context"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// AccountRepository defines persistence for accounts. Lookups by email return
// deactivated accounts too; only ListActive filters them out.
type AccountRepository interface {
	// Create stores a new account. It returns domain.ErrAccountExists when
	// the email is already taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, email string, patch domain.AccountPatch) (*domain.Account, error)
	Deactivate(ctx context.Context, email string) (*domain.Account, error)
}
