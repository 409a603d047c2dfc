package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AccountService implements signup, login and account administration.
type AccountService struct {
	repo   ports.AccountRepository
	creds  ports.CredentialService
	events ports.EventSink
	log    zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	creds ports.CredentialService,
	events ports.EventSink,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{repo: repo, creds: creds, events: events, log: log}
}

// Register creates an account after checking that the email is free. Roles
// other than user can only be handed out by an authenticated superadmin.
func (s *AccountService) Register(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.Account, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("Missing required fields: email or password")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.Validation(fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	}

	rawRole := in.Role
	if rawRole == "" {
		rawRole = string(domain.RoleUser)
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, domain.Validation(fmt.Sprintf("Invalid role %s", in.Role))
	}
	if role.Privileged() && (caller == nil || caller.Role != domain.RoleSuperAdmin) {
		return nil, domain.Forbidden(fmt.Sprintf("Only a superadmin can create %s accounts", role))
	}

	_, err = s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Validation(fmt.Sprintf("The user %s already exists!", email))
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, domain.Internal(err, "The user hasn't been created")
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal(err, "The user hasn't been created")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         in.Name,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrAccountExists) {
		// lost a race against a concurrent signup
		return nil, domain.Validation(fmt.Sprintf("The user %s already exists!", email))
	}
	if err != nil {
		return nil, domain.Internal(err, "The user hasn't been created")
	}

	s.log.Info().Str("account_id", created.ID).Str("role", string(role)).Msg("account registered")
	emit(s.events, domain.EntityAccount, domain.ActionCreated, created.ID, callerID(caller), created)
	return created, nil
}

// Login checks the password and returns a session token. Unknown emails are
// reported distinctly; wrong passwords and deactivated accounts are not.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.Validation("Missing required fields: email or password")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return "", domain.Validation(fmt.Sprintf("User %s not found.", email))
	}
	if err != nil {
		return "", domain.Internal(err, "Login incorrect")
	}

	if !account.Active || !s.creds.VerifyPassword(password, account.PasswordHash) {
		return "", domain.Validation("User or password incorrect")
	}

	token, err := s.creds.IssueToken(account.ID, account.Email, account.Role)
	if err != nil {
		return "", domain.Internal(err, "Login incorrect")
	}
	return token, nil
}

func (s *AccountService) ListOrSelf(ctx context.Context, caller domain.Claims) (*ports.AccountListing, error) {
	switch caller.Role {
	case domain.RoleSuperAdmin:
		accounts, err := s.repo.ListActive(ctx)
		if err != nil {
			return nil, domain.Internal(err, "Cannot get the users")
		}
		return &ports.AccountListing{Accounts: accounts}, nil
	case domain.RoleEventManager, domain.RoleUser:
		account, err := s.repo.FindByEmail(ctx, caller.Email)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.NotFound(fmt.Sprintf("User with email %s not found", caller.Email))
		}
		if err != nil {
			return nil, domain.Internal(err, "Cannot get the users")
		}
		return &ports.AccountListing{Self: account}, nil
	default:
		return nil, domain.Forbidden(fmt.Sprintf("Unknown role %s", caller.Role))
	}
}

// Update overwrites the administrable fields of an account.
func (s *AccountService) Update(ctx context.Context, caller domain.Claims, email string, patch domain.AccountPatch) (*domain.Account, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, domain.Validation(fmt.Sprintf("Invalid role %s", *patch.Role))
	}

	updated, err := s.repo.Update(ctx, email, patch)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("User %s not found.", email))
	}
	if err != nil {
		return nil, domain.Internal(err, fmt.Sprintf("The user %s cannot be updated.", email))
	}

	emit(s.events, domain.EntityAccount, domain.ActionUpdated, updated.ID, caller.AccountID, updated)
	return updated, nil
}

// Deactivate soft-deletes an account. The record stays addressable by email.
func (s *AccountService) Deactivate(ctx context.Context, caller domain.Claims, email string) error {
	account, err := s.repo.Deactivate(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.NotFound(fmt.Sprintf("User %s not found.", email))
	}
	if err != nil {
		return domain.Internal(err, fmt.Sprintf("The user %s cannot be deleted.", email))
	}

	s.log.Info().Str("account_id", account.ID).Str("actor_id", caller.AccountID).Msg("account deactivated")
	emit(s.events, domain.EntityAccount, domain.ActionDeactivated, account.ID, caller.AccountID, nil)
	return nil
}

func callerID(c *domain.Claims) string {
	if c == nil {
		return ""
	}
	return c.AccountID
}
