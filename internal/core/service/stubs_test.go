package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory repositories shared by the service tests.
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byEmail   map[string]*domain.Account
	createErr error
	findErr   error
	nextID    int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	c := cloneAccount(a)
	c.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.byEmail[c.Email] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ListActive(_ context.Context) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byEmail {
		if a.Active {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) Update(_ context.Context, email string, p domain.AccountPatch) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Deactivate(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Active = false
	return cloneAccount(a), nil
}

type stubEventRepo struct {
	byID      map[string]*domain.Event
	createErr error
	deleted   []string
	updated   []string
	nextID    int
}

func newStubEventRepo(seed ...*domain.Event) *stubEventRepo {
	r := &stubEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range seed {
		r.byID[e.ID] = e
	}
	return r
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	c := *e
	c.ID = fmt.Sprintf("evt-%d", r.nextID)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

func (r *stubEventRepo) FindAll(_ context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.byID {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubEventRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.byID {
		if e.OwnerID == ownerID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubEventRepo) Update(_ context.Context, id string, p domain.EventPatch) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.BannerPhotoURL != nil {
		e.BannerPhotoURL = *p.BannerPhotoURL
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
	r.updated = append(r.updated, id)
	c := *e
	return &c, nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return e, nil
}

type stubPresentationRepo struct {
	byID   map[string]*domain.Presentation
	nextID int
}

func newStubPresentationRepo(seed ...*domain.Presentation) *stubPresentationRepo {
	r := &stubPresentationRepo{byID: make(map[string]*domain.Presentation)}
	for _, p := range seed {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubPresentationRepo) Create(_ context.Context, p *domain.Presentation) (*domain.Presentation, error) {
	r.nextID++
	c := *p
	c.ID = fmt.Sprintf("pres-%d", r.nextID)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubPresentationRepo) FindByID(_ context.Context, id string) (*domain.Presentation, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPresentationNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubPresentationRepo) FindByEvent(_ context.Context, eventID string) ([]*domain.Presentation, error) {
	var out []*domain.Presentation
	for _, p := range r.byID {
		if p.EventID == eventID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

type stubTicketRepo struct {
	byID        map[string]*domain.Ticket
	managers    map[string]string // ticket id -> managing account id
	cancelCalls int
	redeemCalls int
	createErr   error
	nextID      int
}

func newStubTicketRepo(seed ...*domain.Ticket) *stubTicketRepo {
	r := &stubTicketRepo{byID: make(map[string]*domain.Ticket), managers: make(map[string]string)}
	for _, t := range seed {
		r.byID[t.ID] = t
	}
	return r
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	c := *t
	c.ID = fmt.Sprintf("tkt-%d", r.nextID)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	c := *t
	return &c, nil
}

func (r *stubTicketRepo) FindByUser(_ context.Context, userID string) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range r.byID {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) Cancel(_ context.Context, id string) (*domain.Ticket, error) {
	r.cancelCalls++
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t.Active = false
	c := *t
	return &c, nil
}

func (r *stubTicketRepo) Redeem(_ context.Context, id string) (*domain.Ticket, error) {
	r.redeemCalls++
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	if t.Active {
		t.Redeemed = true
	}
	c := *t
	return &c, nil
}

func (r *stubTicketRepo) IsManagedBy(_ context.Context, ticketID, managerID string) (bool, error) {
	return r.managers[ticketID] == managerID, nil
}

// stubIdempotency mirrors the Redis store: a reserved key maps to "" until
// Remember points it at a ticket.
type stubIdempotency struct {
	keys       map[string]string
	reserveErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string) (string, bool, error) {
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return id, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

func (s *stubIdempotency) Remember(_ context.Context, key, ticketID string) error {
	s.keys[key] = ticketID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (s *recordingSink) Enqueue(e domain.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Entity+"."+e.Action)
	}
	return out
}

// fastCreds avoids bcrypt in tests that do not care about hashing.
type fastCreds struct{}

func (fastCreds) HashPassword(plain string) (string, error) { return "hashed:" + plain, nil }
func (fastCreds) VerifyPassword(plain, hash string) bool    { return hash == "hashed:"+plain }
func (fastCreds) IssueToken(id, email string, role domain.Role) (string, error) {
	return "token:" + id + ":" + string(role), nil
}
func (fastCreds) DecodeToken(string) (domain.Claims, error) { return domain.Claims{}, domain.ErrInvalidToken }

func superadmin() domain.Claims {
	return domain.Claims{AccountID: "root", Email: "root@example.com", Role: domain.RoleSuperAdmin}
}

func manager(id string) domain.Claims {
	return domain.Claims{AccountID: id, Email: id + "@example.com", Role: domain.RoleEventManager}
}

func user(id string) domain.Claims {
	return domain.Claims{AccountID: id, Email: id + "@example.com", Role: domain.RoleUser}
}

// messageOf returns the client-facing message of a domain error.
func messageOf(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message()
	}
	return ""
}
