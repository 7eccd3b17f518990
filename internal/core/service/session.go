package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// IdentitySubscriber receives identity transitions from a Session.
type IdentitySubscriber func(ctx context.Context, change domain.IdentityChange)

// Session tracks who is signed in on this client. The identity is persisted
// under the "user" key before subscribers hear about a change.
type Session struct {
	local ports.LocalStore
	auth  ports.AuthGateway
	log   zerolog.Logger

	mu          sync.RWMutex
	current     *domain.SessionUser
	subscribers []IdentitySubscriber
}

func NewSession(local ports.LocalStore, auth ports.AuthGateway, log zerolog.Logger) *Session {
	return &Session{local: local, auth: auth, log: log}
}

// Subscribe registers fn for every subsequent identity change.
func (s *Session) Subscribe(fn IdentitySubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Restore loads a previously persisted session. An absent or unreadable
// blob leaves the client as guest. No notification is sent.
func (s *Session) Restore(ctx context.Context) domain.Identity {
	raw, ok, err := s.local.Get(ctx, domain.UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read persisted session")
	}

	var current *domain.SessionUser
	if err == nil && ok {
		if su, valid := domain.ParseSessionUser(raw); valid {
			current = &su
		} else {
			s.log.Warn().Msg("discarding unreadable persisted session")
		}
	}

	s.mu.Lock()
	s.current = current
	s.mu.Unlock()
	return s.CurrentIdentity()
}

// CurrentIdentity returns the signed-in user, or domain.Guest.
func (s *Session) CurrentIdentity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Guest
	}
	return domain.UserIdentity(s.current.ID)
}

// CurrentUser returns the signed-in account, if any.
func (s *Session) CurrentUser() (domain.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.SessionUser{}, false
	}
	return *s.current, true
}

// Token returns the bearer token of the signed-in user, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Session) IsAdmin() bool {
	u, ok := s.CurrentUser()
	return ok && u.IsAdmin()
}

func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.signIn(ctx, token, user, domain.ReasonLogin); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Session) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	token, user, err := s.auth.Register(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := s.signIn(ctx, token, user, domain.ReasonRegister); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Session) signIn(ctx context.Context, token string, user *domain.User, reason domain.ChangeReason) error {
	su := domain.SessionUser{User: *user, Token: token}
	su.PasswordHash = ""
	if err := s.persist(ctx, &su); err != nil {
		return err
	}

	from := s.swap(&su)
	s.log.Info().Str("user_id", user.ID).Str("reason", string(reason)).Msg("signed in")
	s.notify(ctx, domain.IdentityChange{From: from, To: domain.UserIdentity(user.ID), Reason: reason})
	return nil
}

// Logout returns the client to guest. Carts are left untouched.
func (s *Session) Logout(ctx context.Context) error {
	if s.CurrentIdentity().IsGuest() {
		return nil
	}
	if err := s.local.Remove(ctx, domain.UserKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	from := s.swap(nil)
	s.log.Info().Str("user_id", from.UserID).Msg("signed out")
	s.notify(ctx, domain.IdentityChange{From: from, To: domain.Guest, Reason: domain.ReasonLogout})
	return nil
}

// UpdateProfile replaces the persisted account details of the signed-in
// user. The identity does not change, so no notification is sent.
func (s *Session) UpdateProfile(ctx context.Context, user domain.User) error {
	current, ok := s.CurrentUser()
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.ID != current.ID {
		return domain.ErrForbidden
	}

	user.PasswordHash = ""
	su := domain.SessionUser{User: user, Token: current.Token}
	if err := s.persist(ctx, &su); err != nil {
		return err
	}
	s.swap(&su)
	return nil
}

func (s *Session) persist(ctx context.Context, su *domain.SessionUser) error {
	raw, err := su.Encode()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.local.Set(ctx, domain.UserKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Session) swap(next *domain.SessionUser) domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := domain.Guest
	if s.current != nil {
		from = domain.UserIdentity(s.current.ID)
	}
	s.current = next
	return from
}

func (s *Session) notify(ctx context.Context, change domain.IdentityChange) {
	s.mu.RLock()
	subs := make([]IdentitySubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, change)
	}
}
