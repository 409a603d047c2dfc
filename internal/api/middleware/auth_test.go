package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/service"
)

func newCreds() *service.CredentialService {
	return service.NewCredentialService("secret", time.Hour)
}

func issue(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := newCreds().IssueToken("acc-1", "alice@example.com", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	called := false
	rec := runMiddleware(t, Authenticate(newCreds()), "Bearer "+issue(t, domain.RoleEventManager), func(c echo.Context) error {
		called = true
		claims, ok := domain.ClaimsFromContext(c.Request().Context())
		if !ok {
			t.Fatalf("claims not attached")
		}
		if claims.AccountID != "acc-1" || claims.Email != "alice@example.com" || claims.Role != domain.RoleEventManager {
			t.Fatalf("unexpected claims %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_BareTokenAccepted(t *testing.T) {
	rec := runMiddleware(t, Authenticate(newCreds()), issue(t, domain.RoleUser), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	other := service.NewCredentialService("other", time.Hour)
	foreign, err := other.IssueToken("acc-1", "a@b.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for name, header := range map[string]string{
		"missing header": "",
		"garbage":        "Bearer not-a-token",
		"foreign secret": "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			rec := runMiddleware(t, Authenticate(newCreds()), header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous passes without claims", func(t *testing.T) {
		rec := runMiddleware(t, OptionalAuth(newCreds()), "", func(c echo.Context) error {
			if _, ok := domain.ClaimsFromContext(c.Request().Context()); ok {
				t.Fatalf("no claims expected")
			}
			return c.NoContent(http.StatusOK)
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		rec := runMiddleware(t, OptionalAuth(newCreds()), "Bearer "+issue(t, domain.RoleSuperAdmin), func(c echo.Context) error {
			claims, ok := domain.ClaimsFromContext(c.Request().Context())
			if !ok || claims.Role != domain.RoleSuperAdmin {
				t.Fatalf("unexpected claims %+v", claims)
			}
			return c.NoContent(http.StatusOK)
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("bad token rejected", func(t *testing.T) {
		rec := runMiddleware(t, OptionalAuth(newCreds()), "Bearer nope", func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
