package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

const msgUnauthorized = "Unauthorized"

// Authenticate verifies the Authorization header and attaches the decoded
// claims to the request context. Missing or invalid tokens are rejected
// with 401.
func Authenticate(decoder ports.TokenDecoder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}

			claims, err := decoder.DecodeToken(header)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized).SetInternal(err)
			}

			attach(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth attaches claims when an Authorization header is present and
// lets anonymous requests through. A header that fails to decode is still
// rejected, so a bad token never silently downgrades to anonymous.
func OptionalAuth(decoder ports.TokenDecoder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			claims, err := decoder.DecodeToken(header)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized).SetInternal(err)
			}

			attach(c, claims)
			return next(c)
		}
	}
}

func attach(c echo.Context, claims domain.Claims) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithClaims(req.Context(), claims)))
}
