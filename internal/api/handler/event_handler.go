package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/api/metrics"
	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// EventHandler serves the /events routes.
type EventHandler struct {
	events ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Create handles POST /events/create.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /events/create [post]
func (h *EventHandler) Create(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	// A caller who may not create events gets the 403 whatever the body holds.
	if err := h.events.AuthorizeCreate(claims); err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	event, err := h.events.Create(c.Request().Context(), claims, ports.CreateEventInput{
		Name:           req.Name,
		BannerPhotoURL: req.BannerPhotoURL,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		return err
	}

	metrics.EventsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, event)
}

// FindAll handles GET /events. No authentication required.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  errorResponse
// @Router       /events [get]
func (h *EventHandler) FindAll(c echo.Context) error {
	events, err := h.events.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// FindByID handles GET /events/findEvent/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/findEvent/{id} [get]
func (h *EventHandler) FindByID(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	event, err := h.events.FindByID(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// FindByOwner handles GET /events/findAllById/:userId.
//
// @Summary      List the events owned by an event manager
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Owner account id"
// @Success      200     {array}   domain.Event
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /events/findAllById/{userId} [get]
func (h *EventHandler) FindByOwner(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	events, err := h.events.FindByOwner(c.Request().Context(), claims, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Update handles PUT /events/update/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event id"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /events/update/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	event, err := h.events.Update(c.Request().Context(), claims, c.Param("id"), domain.EventPatch{
		Name:           req.Name,
		BannerPhotoURL: req.BannerPhotoURL,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/delete/:id and returns the removed event.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /events/delete/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	event, err := h.events.Delete(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}
