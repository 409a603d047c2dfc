package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/api/metrics"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// AccountHandler serves the /user routes.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates an account. Anonymous callers may only create plain
// users; a superadmin token is needed for the other roles.
//
// @Summary      Register an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /user [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Register(c.Request().Context(), optionalClaims(c), ports.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.IsActive,
	})
	if err != nil {
		return err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(account.Role.String()).Inc()
	return c.JSON(http.StatusCreated, account)
}

// List returns every active account to a superadmin and the caller's own
// account to everyone else.
//
// @Summary      List accounts or show own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /user [get]
func (h *AccountHandler) List(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	listing, err := h.accounts.ListOrSelf(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	if listing.Self != nil {
		return c.JSON(http.StatusOK, listing.Self)
	}
	return c.JSON(http.StatusOK, listing.Accounts)
}

// Update handles PUT /user/:email.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string                true  "Account email"
// @Param        body   body      updateAccountRequest  true  "Fields to change"
// @Success      200    {object}  domain.Account
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /user/{email} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), claims, c.Param("email"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Deactivate handles DELETE /user/:email. Accounts are never removed.
//
// @Summary      Deactivate an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  messageResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /user/{email} [delete]
func (h *AccountHandler) Deactivate(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	email := c.Param("email")
	if err := h.accounts.Deactivate(c.Request().Context(), claims, email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("User %s has been deactivated.", email)})
}
