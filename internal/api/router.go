package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/compunet/ticketing-api/docs"
	"github.com/compunet/ticketing-api/internal/api/handler"
	"github.com/compunet/ticketing-api/internal/api/middleware"
	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs. Everything is built once
// in main and injected here.
type Deps struct {
	Log           zerolog.Logger
	Tokens        ports.TokenDecoder
	Accounts      ports.AccountService
	Events        ports.EventService
	Presentations ports.PresentationService
	Tickets       ports.TicketService
	// Health maps dependency names to readiness pings.
	Health map[string]handler.Pinger
	// Registry receives the HTTP metrics. Nil means the default Prometheus
	// registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ticketing",
		Registerer: registerer,
	}))

	auth := middleware.Authenticate(d.Tokens)
	managers := middleware.RBAC(domain.RoleEventManager, domain.RoleSuperAdmin)
	superadmin := middleware.RBAC(domain.RoleSuperAdmin)

	// --- Auth / accounts ---
	authHandler := handler.NewAuthHandler(d.Accounts)
	accountHandler := handler.NewAccountHandler(d.Accounts)

	e.POST("/auth/login", authHandler.Login)

	users := e.Group("/user")
	users.POST("", accountHandler.Register, middleware.OptionalAuth(d.Tokens))
	users.GET("", accountHandler.List, auth)
	users.PUT("/:email", accountHandler.Update, auth, superadmin)
	users.DELETE("/:email", accountHandler.Deactivate, auth, superadmin)

	// --- Events ---
	// The event service enforces the event-manager|superadmin allow-list
	// itself so callers get its per-operation messages.
	eventHandler := handler.NewEventHandler(d.Events)

	events := e.Group("/events")
	events.GET("", eventHandler.FindAll)
	events.GET("/findEvent/:id", eventHandler.FindByID, auth)
	events.GET("/findAllById/:userId", eventHandler.FindByOwner, auth)
	events.POST("/create", eventHandler.Create, auth)
	events.PUT("/update/:id", eventHandler.Update, auth)
	events.DELETE("/delete/:id", eventHandler.Delete, auth)

	// --- Presentations ---
	presentationHandler := handler.NewPresentationHandler(d.Presentations)

	e.POST("/presentations", presentationHandler.Create, auth, managers)
	e.GET("/presentations/event/:eventId", presentationHandler.ListByEvent)

	// --- Tickets ---
	ticketHandler := handler.NewTicketHandler(d.Tickets)

	tickets := e.Group("/ticket", auth)
	tickets.POST("/buy", ticketHandler.Buy)
	tickets.GET("/user/:userId", ticketHandler.ListByUser)
	tickets.GET("/:ticketId", ticketHandler.Get)
	tickets.DELETE("/:ticketId", ticketHandler.Cancel)
	tickets.PATCH("/:ticketId/cancel", ticketHandler.Cancel)
	tickets.PATCH("/:ticketId/redeem", ticketHandler.Redeem)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
