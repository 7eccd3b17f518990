package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub local store
// ---------------------------------------------------------------------------

type stubLocalStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newStubLocalStore() *stubLocalStore {
	return &stubLocalStore{values: make(map[string]string)}
}

func (s *stubLocalStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubLocalStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *stubLocalStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *stubLocalStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

func (s *stubLocalStore) cart(key string) domain.Cart {
	s.mu.Lock()
	raw := s.values[key]
	s.mu.Unlock()
	c, _ := domain.ParseCart(raw)
	return c
}

// ---------------------------------------------------------------------------
// In-memory stub cart gateway
// ---------------------------------------------------------------------------

var errUnreachable = errors.New("connection refused")

type stubGateway struct {
	mu         sync.Mutex
	records    map[string]*domain.RemoteCartRecord // by user id
	fetchErr   error
	replaceErr error
	replaces   int
	deletes    int

	// hold, when set, blocks Replace until it is closed.
	hold chan struct{}
}

func newStubGateway() *stubGateway {
	return &stubGateway{records: make(map[string]*domain.RemoteCartRecord)}
}

func (g *stubGateway) FetchByUser(_ context.Context, userID string) (*domain.RemoteCartRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	r, ok := g.records[userID]
	if !ok {
		return nil, nil
	}
	clone := *r
	clone.Items = r.Items.Clone()
	return &clone, nil
}

func (g *stubGateway) Replace(_ context.Context, userID string, lines domain.Cart) (*domain.RemoteCartRecord, error) {
	if g.hold != nil {
		<-g.hold
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replaces++
	if g.replaceErr != nil {
		return nil, g.replaceErr
	}
	r, ok := g.records[userID]
	if !ok {
		r = &domain.RemoteCartRecord{ID: "cart-" + userID, UserID: userID}
		g.records[userID] = r
	}
	r.Items = lines.Clone()
	clone := *r
	return &clone, nil
}

func (g *stubGateway) Delete(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes++
	delete(g.records, userID)
	return nil
}

func (g *stubGateway) seed(userID string, lines domain.Cart) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records[userID] = &domain.RemoteCartRecord{ID: "cart-" + userID, UserID: userID, Items: lines}
}

func (g *stubGateway) items(userID string) (domain.Cart, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.records[userID]
	if !ok {
		return nil, false
	}
	return r.Items.Clone(), true
}

func (g *stubGateway) setReplaceErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replaceErr = err
}

func (g *stubGateway) replaceCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replaces
}

// ---------------------------------------------------------------------------
// Stub merge guard
// ---------------------------------------------------------------------------

type stubMergeGuard struct {
	marked map[string]bool
}

func newStubMergeGuard() *stubMergeGuard {
	return &stubMergeGuard{marked: make(map[string]bool)}
}

func (g *stubMergeGuard) IsDuplicate(_ context.Context, userID, digest string) (bool, error) {
	return g.marked[userID+":"+digest], nil
}

func (g *stubMergeGuard) Mark(_ context.Context, userID, digest string) error {
	g.marked[userID+":"+digest] = true
	return nil
}

// ---------------------------------------------------------------------------
// Stub auth gateway
// ---------------------------------------------------------------------------

type stubAuthGateway struct {
	users map[string]*domain.User // by email
	pass  map[string]string
}

func newStubAuthGateway() *stubAuthGateway {
	return &stubAuthGateway{users: make(map[string]*domain.User), pass: make(map[string]string)}
}

func (a *stubAuthGateway) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	u, ok := a.users[email]
	if !ok {
		return "", nil, domain.ErrUserNotFound
	}
	if a.pass[email] != password {
		return "", nil, domain.ErrInvalidCredentials
	}
	clone := *u
	return "token-" + u.ID, &clone, nil
}

func (a *stubAuthGateway) Register(_ context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if _, ok := a.users[in.Email]; ok {
		return "", nil, domain.ErrUserExists
	}
	u := &domain.User{ID: "u-" + in.Email, Name: in.Name, Email: in.Email, Role: domain.RoleUser}
	a.users[in.Email] = u
	a.pass[in.Email] = in.Password
	clone := *u
	return "token-" + u.ID, &clone, nil
}

var discardLogger = zerolog.Nop()
