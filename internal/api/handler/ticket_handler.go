package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/api/metrics"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a purchase without buying twice.
const HeaderIdempotencyKey = "Idempotency-Key"

// TicketHandler serves the /ticket routes. Every route requires a token.
type TicketHandler struct {
	tickets ports.TicketService
}

func NewTicketHandler(tickets ports.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Buy handles POST /ticket/buy. A replayed Idempotency-Key answers 200 with
// the ticket from the first purchase.
//
// @Summary      Buy a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            false  "Key to make retries safe"
// @Param        body             body      buyTicketRequest  true   "Purchase"
// @Success      201              {object}  domain.Ticket
// @Success      200              {object}  domain.Ticket
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /ticket/buy [post]
func (h *TicketHandler) Buy(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req buyTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	result, err := h.tickets.Buy(c.Request().Context(), claims, ports.BuyTicketInput{
		PresentationID: req.PresentationID,
		UserID:         req.UserID,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.Replayed {
		metrics.TicketsTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, result.Ticket)
	}
	metrics.TicketsTotal.WithLabelValues("purchased").Inc()
	return c.JSON(http.StatusCreated, result.Ticket)
}

// Get handles GET /ticket/:ticketId.
//
// @Summary      Get ticket details
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        ticketId  path      string  true  "Ticket id"
// @Success      200       {object}  domain.Ticket
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /ticket/{ticketId} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(c.Request().Context(), claims, c.Param("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Cancel handles DELETE /ticket/:ticketId and PATCH /ticket/:ticketId/cancel.
//
// @Summary      Cancel a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        ticketId  path      string  true  "Ticket id"
// @Success      200       {object}  cancelTicketResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /ticket/{ticketId} [delete]
// @Router       /ticket/{ticketId}/cancel [patch]
func (h *TicketHandler) Cancel(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Cancel(c.Request().Context(), claims, c.Param("ticketId"))
	if err != nil {
		return err
	}

	metrics.TicketsTotal.WithLabelValues("cancelled").Inc()
	return c.JSON(http.StatusOK, cancelTicketResponse{Message: "Ticket successfully canceled", Ticket: ticket})
}

// Redeem handles PATCH /ticket/:ticketId/redeem.
//
// @Summary      Redeem a ticket at the door
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        ticketId  path      string  true  "Ticket id"
// @Success      200       {object}  domain.Ticket
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /ticket/{ticketId}/redeem [patch]
func (h *TicketHandler) Redeem(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Redeem(c.Request().Context(), claims, c.Param("ticketId"))
	if err != nil {
		return err
	}

	metrics.TicketsTotal.WithLabelValues("redeemed").Inc()
	return c.JSON(http.StatusOK, ticket)
}

// ListByUser handles GET /ticket/user/:userId.
//
// @Summary      List a purchaser's tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Purchaser account id"
// @Success      200     {array}   domain.Ticket
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /ticket/user/{userId} [get]
func (h *TicketHandler) ListByUser(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	tickets, err := h.tickets.ListByUser(c.Request().Context(), claims, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}
