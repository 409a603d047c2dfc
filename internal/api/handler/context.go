package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// callerClaims returns the claims attached by the Authenticate middleware.
// A route wired without the middleware fails closed with 401.
func callerClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok || claims.AccountID == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return claims, nil
}

// optionalClaims is callerClaims for routes behind OptionalAuth.
func optionalClaims(c echo.Context) *domain.Claims {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok {
		return nil
	}
	return &claims
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
