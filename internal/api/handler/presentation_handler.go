package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/core/ports"
)

type PresentationHandler struct {
	presentations ports.PresentationService
}

func NewPresentationHandler(presentations ports.PresentationService) *PresentationHandler {
	return &PresentationHandler{presentations: presentations}
}

// Create handles POST /presentations.
//
// @Summary      Schedule a presentation of an event
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPresentationRequest  true  "Presentation"
// @Success      201   {object}  domain.Presentation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /presentations [post]
func (h *PresentationHandler) Create(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req createPresentationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.presentations.Create(c.Request().Context(), claims, ports.CreatePresentationInput{
		EventID:  req.EventID,
		StartsAt: req.StartsAt,
		Venue:    req.Venue,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// ListByEvent handles GET /presentations/event/:eventId.
//
// @Summary      List the presentations of an event
// @Tags         presentations
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {array}   domain.Presentation
// @Failure      500      {object}  errorResponse
// @Router       /presentations/event/{eventId} [get]
func (h *PresentationHandler) ListByEvent(c echo.Context) error {
	list, err := h.presentations.ListByEvent(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
