package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

const (
	bcryptCost      = 10
	defaultTokenTTL = time.Hour
	bearerPrefix    = "Bearer "
)

type sessionClaims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords and signs HS256 session tokens.
type CredentialService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCredentialService(jwtSecret string, tokenTTL time.Duration) *CredentialService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &CredentialService{secret: []byte(jwtSecret), ttl: tokenTTL, now: time.Now}
}

func (s *CredentialService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *CredentialService) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *CredentialService) IssueToken(accountID, email string, role domain.Role) (string, error) {
	now := s.now()
	claims := sessionClaims{
		AccountID: accountID,
		Email:     email,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// DecodeToken accepts either a bare token or an Authorization header value
// with the Bearer prefix.
func (s *CredentialService) DecodeToken(raw string) (domain.Claims, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), bearerPrefix))
	if tokenStr == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.AccountID == "" {
		return domain.Claims{}, fmt.Errorf("%w: bad claims", domain.ErrInvalidToken)
	}

	return domain.Claims{AccountID: claims.AccountID, Email: claims.Email, Role: role}, nil
}
