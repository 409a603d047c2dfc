package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAccountService struct {
	registerFn   func(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.Account, error)
	loginFn      func(ctx context.Context, email, password string) (string, error)
	listFn       func(ctx context.Context, caller domain.Claims) (*ports.AccountListing, error)
	updateFn     func(ctx context.Context, caller domain.Claims, email string, patch domain.AccountPatch) (*domain.Account, error)
	deactivateFn func(ctx context.Context, caller domain.Claims, email string) error
}

func (s *stubAccountService) Register(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, caller, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) ListOrSelf(ctx context.Context, caller domain.Claims) (*ports.AccountListing, error) {
	return s.listFn(ctx, caller)
}

func (s *stubAccountService) Update(ctx context.Context, caller domain.Claims, email string, patch domain.AccountPatch) (*domain.Account, error) {
	return s.updateFn(ctx, caller, email, patch)
}

func (s *stubAccountService) Deactivate(ctx context.Context, caller domain.Claims, email string) error {
	return s.deactivateFn(ctx, caller, email)
}

type stubEventService struct {
	authorizeFn func(caller domain.Claims) error
	createFn    func(ctx context.Context, caller domain.Claims, in ports.CreateEventInput) (*domain.Event, error)
	findByIDFn  func(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error)
	findAllFn   func(ctx context.Context) ([]*domain.Event, error)
	byOwnerFn   func(ctx context.Context, caller domain.Claims, ownerID string) ([]*domain.Event, error)
	updateFn    func(ctx context.Context, caller domain.Claims, id string, patch domain.EventPatch) (*domain.Event, error)
	deleteFn    func(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error)
}

func (s *stubEventService) AuthorizeCreate(caller domain.Claims) error {
	if s.authorizeFn == nil {
		return nil
	}
	return s.authorizeFn(caller)
}

func (s *stubEventService) Create(ctx context.Context, caller domain.Claims, in ports.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubEventService) FindByID(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error) {
	return s.findByIDFn(ctx, caller, id)
}

func (s *stubEventService) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return s.findAllFn(ctx)
}

func (s *stubEventService) FindByOwner(ctx context.Context, caller domain.Claims, ownerID string) ([]*domain.Event, error) {
	return s.byOwnerFn(ctx, caller, ownerID)
}

func (s *stubEventService) Update(ctx context.Context, caller domain.Claims, id string, patch domain.EventPatch) (*domain.Event, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubEventService) Delete(ctx context.Context, caller domain.Claims, id string) (*domain.Event, error) {
	return s.deleteFn(ctx, caller, id)
}

type stubPresentationService struct {
	createFn func(ctx context.Context, caller domain.Claims, in ports.CreatePresentationInput) (*domain.Presentation, error)
	listFn   func(ctx context.Context, eventID string) ([]*domain.Presentation, error)
}

func (s *stubPresentationService) Create(ctx context.Context, caller domain.Claims, in ports.CreatePresentationInput) (*domain.Presentation, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubPresentationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Presentation, error) {
	return s.listFn(ctx, eventID)
}

type stubTicketService struct {
	buyFn    func(ctx context.Context, caller domain.Claims, in ports.BuyTicketInput) (*ports.PurchaseResult, error)
	getFn    func(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	cancelFn func(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	redeemFn func(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error)
	listFn   func(ctx context.Context, caller domain.Claims, userID string) ([]*domain.Ticket, error)
}

func (s *stubTicketService) Buy(ctx context.Context, caller domain.Claims, in ports.BuyTicketInput) (*ports.PurchaseResult, error) {
	return s.buyFn(ctx, caller, in)
}

func (s *stubTicketService) Get(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubTicketService) Cancel(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	return s.cancelFn(ctx, caller, id)
}

func (s *stubTicketService) Redeem(ctx context.Context, caller domain.Claims, id string) (*domain.Ticket, error) {
	return s.redeemFn(ctx, caller, id)
}

func (s *stubTicketService) ListByUser(ctx context.Context, caller domain.Claims, userID string) ([]*domain.Ticket, error) {
	return s.listFn(ctx, caller, userID)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newContext builds an echo context for method/target with an optional JSON
// body. When claims is non-nil it is attached as the auth middleware would.
func newContext(method, target, body string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if claims != nil {
		req = req.WithContext(domain.ContextWithClaims(req.Context(), *claims))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func userClaims(id string) *domain.Claims {
	return &domain.Claims{AccountID: id, Email: id + "@example.com", Role: domain.RoleUser}
}

func managerClaims(id string) *domain.Claims {
	return &domain.Claims{AccountID: id, Email: id + "@example.com", Role: domain.RoleEventManager}
}

func superadminClaims() *domain.Claims {
	return &domain.Claims{AccountID: "root", Email: "root@example.com", Role: domain.RoleSuperAdmin}
}

// httpCode extracts the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
