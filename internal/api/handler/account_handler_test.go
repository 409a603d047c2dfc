package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`, nil)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Login successful" || resp["token"] != "token123" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAuthHandler_Login_ServiceErrorIsReturned(t *testing.T) {
	want := domain.Validation("User or password incorrect")
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (string, error) { return "", want },
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`, nil)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must not write on error, got %q", rec.Body.String())
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com"}`, nil)

	err := NewAuthHandler(stub).Login(c)
	if httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAccountService{}
	c, _ := newContext(http.MethodPost, "/auth/login", "{", nil)

	if err := NewAuthHandler(stub).Login(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAccountHandler_Register_Anonymous(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(_ context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.Account, error) {
			if caller != nil {
				t.Fatalf("expected anonymous caller, got %+v", caller)
			}
			if in.Email != "bob@example.com" || in.LastName != "Builder" || in.Active == nil || !*in.Active {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "acc-1", Email: in.Email, Role: domain.RoleUser, PasswordHash: "hash", Active: true}, nil
		},
	}
	body := `{"name":"Bob","lastname":"Builder","email":"bob@example.com","password":"pw","isActive":true}`
	c, rec := newContext(http.MethodPost, "/user", body, nil)

	if err := NewAccountHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must never be returned: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("password hash must never be returned: %+v", resp)
	}
	if resp["email"] != "bob@example.com" || resp["isActive"] != true {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAccountHandler_Register_PassesSuperadminCaller(t *testing.T) {
	var got *domain.Claims
	stub := &stubAccountService{
		registerFn: func(_ context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.Account, error) {
			got = caller
			return &domain.Account{ID: "acc-2", Email: in.Email, Role: domain.RoleEventManager}, nil
		},
	}
	body := `{"email":"mgr@example.com","password":"pw","role":"event-manager"}`
	c, _ := newContext(http.MethodPost, "/user", body, superadminClaims())

	if err := NewAccountHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.Role != domain.RoleSuperAdmin {
		t.Fatalf("expected superadmin caller, got %+v", got)
	}
}

func TestAccountHandler_Register_BadEmailFormat(t *testing.T) {
	stub := &stubAccountService{}
	c, _ := newContext(http.MethodPost, "/user", `{"email":"not-an-email","password":"pw"}`, nil)

	if err := NewAccountHandler(stub).Register(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List / Update / Deactivate
// ---------------------------------------------------------------------------

func TestAccountHandler_List_SelfForUser(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(_ context.Context, caller domain.Claims) (*ports.AccountListing, error) {
			return &ports.AccountListing{Self: &domain.Account{ID: caller.AccountID, Email: caller.Email}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/user", "", userClaims("u1"))

	if err := NewAccountHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a single object: %v", err)
	}
	if resp["email"] != "u1@example.com" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAccountHandler_List_ArrayForSuperadmin(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(context.Context, domain.Claims) (*ports.AccountListing, error) {
			return &ports.AccountListing{Accounts: []*domain.Account{{ID: "a"}, {ID: "b"}}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/user", "", superadminClaims())

	if err := NewAccountHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected an array: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

func TestAccountHandler_List_NoClaims(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/user", "", nil)

	if err := NewAccountHandler(&stubAccountService{}).List(c); httpCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAccountHandler_Update_BuildsPatch(t *testing.T) {
	stub := &stubAccountService{
		updateFn: func(_ context.Context, caller domain.Claims, email string, p domain.AccountPatch) (*domain.Account, error) {
			if caller.AccountID != superadminClaims().AccountID {
				t.Fatalf("caller not passed through: %+v", caller)
			}
			if email != "bob@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			if p.Name == nil || *p.Name != "Robert" || p.Role == nil || *p.Role != domain.RoleEventManager {
				t.Fatalf("unexpected patch: %+v", p)
			}
			if p.LastName != nil || p.Active != nil {
				t.Fatalf("absent fields must stay nil: %+v", p)
			}
			return &domain.Account{Email: email, Name: *p.Name, Role: *p.Role}, nil
		},
	}
	c, rec := newContext(http.MethodPut, "/user/bob@example.com", `{"name":"Robert","role":"event-manager"}`, superadminClaims())
	c.SetParamNames("email")
	c.SetParamValues("bob@example.com")

	if err := NewAccountHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Deactivate(t *testing.T) {
	stub := &stubAccountService{
		deactivateFn: func(_ context.Context, caller domain.Claims, email string) error {
			if caller.Role != domain.RoleSuperAdmin {
				t.Fatalf("caller not passed through: %+v", caller)
			}
			if email != "bob@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/user/bob@example.com", "", superadminClaims())
	c.SetParamNames("email")
	c.SetParamValues("bob@example.com")

	if err := NewAccountHandler(stub).Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "User bob@example.com has been deactivated." {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAccountHandler_Deactivate_NotFound(t *testing.T) {
	stub := &stubAccountService{
		deactivateFn: func(_ context.Context, _ domain.Claims, email string) error {
			return domain.NotFound("User " + email + " not found.")
		},
	}
	c, _ := newContext(http.MethodDelete, "/user/ghost@example.com", "", superadminClaims())
	c.SetParamNames("email")
	c.SetParamValues("ghost@example.com")

	if err := NewAccountHandler(stub).Deactivate(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
