// Package session owns the authenticated identity for the lifetime of the
// process: set once by a successful login, read by every view, and torn down
// by logout together with anything keyed to it.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Identity is the authenticated viewer. Privileged is true only for the
// single designated administrator name; there is no access-control list.
type Identity struct {
	Name       string
	Privileged bool
}

// Authenticator verifies credentials with the backend. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Session is the process-wide identity slot. Methods are safe for the UI
// goroutine plus the login goroutine.
type Session struct {
	mu       sync.Mutex
	auth     Authenticator
	admin    string
	store    *Store
	identity *Identity
}

// New returns an unauthenticated Session. admin is the designated
// administrator name; store may be nil when remember-me is disabled.
func New(auth Authenticator, admin string, store *Store) *Session {
	return &Session{auth: auth, admin: admin, store: store}
}

// Login verifies the credentials and, only on success, installs the identity.
// On any failure the session stays exactly as it was; no partial identity is
// ever set.
func (s *Session) Login(ctx context.Context, username, password string) (Identity, error) {
	message, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{
		Name:       username,
		Privileged: username == s.admin,
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Remember(username); err != nil {
			// remember-me is a convenience; the login itself stands
			log.Warn().Err(err).Msg("could not persist remembered identity")
		}
	}

	log.Info().Str("identity", username).Bool("privileged", identity.Privileged).Str("message", message).Msg("logged in")

	return identity, nil
}

// Current returns the active identity, if any.
func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return Identity{}, false
	}

	return *s.identity, true
}

// Logout clears the identity and deletes the remembered name. Caches bound to
// the identity are invalidated by the caller; after Logout returns, nothing
// durable names the previous user.
func (s *Session) Logout() {
	s.mu.Lock()
	prev := s.identity
	s.identity = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("could not clear remembered identity")
		}
	}

	if prev != nil {
		log.Info().Str("identity", prev.Name).Msg("logged out")
	}
}

// RememberedName returns the identity name persisted by the last login on
// this machine, for pre-filling the login form. Empty when there is none or
// remember-me is disabled.
func (s *Session) RememberedName() string {
	if s.store == nil {
		return ""
	}

	name, err := s.store.Remembered()
	if err != nil {
		log.Warn().Err(err).Msg("could not read remembered identity")

		return ""
	}

	return name
}
