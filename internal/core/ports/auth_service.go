package ports

import "github.com/compunet/ticketing-api/internal/core/domain"

// TokenDecoder turns a raw Authorization header value into claims.
type TokenDecoder interface {
	DecodeToken(raw string) (domain.Claims, error)
}

// CredentialService hashes passwords and issues session tokens.
type CredentialService interface {
	TokenDecoder
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(accountID, email string, role domain.Role) (string, error)
}
