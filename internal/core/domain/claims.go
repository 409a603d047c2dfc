package domain

import "context"

// Claims is the identity carried by a session token. It is rebuilt from the
// token on every request and never persisted.
type Claims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Is reports whether the claims belong to the given account id.
func (c Claims) Is(accountID string) bool {
	return c.AccountID != "" && c.AccountID == accountID
}

type claimsKey struct{}

// ContextWithClaims returns a copy of ctx carrying the caller's claims.
func ContextWithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims attached by the auth middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}
