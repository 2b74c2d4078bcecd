// Package session owns the identity overlay: the authenticated ("real")
// account plus an optional impersonated account. All mutation goes through
// the named commands here; everything else reads the derived effective
// identity.
package session

import (
	"context"
	"errors"
	"sync"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/store"
)

var (
	// ErrAccountMissing: the identity service authenticated a principal that
	// has no account record. Fatal for the session; callers force a sign-out
	// instead of rendering a half-authenticated state.
	ErrAccountMissing = errors.New("session: authenticated principal has no account record")
	ErrNotAdmin       = errors.New("session: only admins can impersonate")
	ErrTargetNotFound = errors.New("session: impersonation target not found")
)

// Sessions is the process-wide manager, set once at startup.
var Sessions *Manager

func Init(accts store.AccountStore) {
	Sessions = NewManager(accts)
}

// Session is one principal's overlay. The effective identity is the
// impersonated account when set, else the real one; it is derived on read and
// never stored, so there is no window where a stale value is observable.
type Session struct {
	mu           sync.RWMutex
	accounts     store.AccountStore
	real         accounts.Account
	impersonated *accounts.Account
}

func (s *Session) Real() accounts.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.real
}

func (s *Session) Effective() accounts.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.impersonated != nil {
		return *s.impersonated
	}
	return s.real
}

func (s *Session) Impersonating() (accounts.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.impersonated == nil {
		return accounts.Account{}, false
	}
	return *s.impersonated, true
}

// BeginImpersonation sets the overlay target. Only an admin real identity may
// start one; the guard runs before any store call. Calling while already
// impersonating replaces the target, no stacking.
func (s *Session) BeginImpersonation(ctx context.Context, targetID string) error {
	if s.Real().Role != accounts.RoleAdmin {
		return ErrNotAdmin
	}

	target, err := s.accounts.Get(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTargetNotFound
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.impersonated = &target
	s.mu.Unlock()
	return nil
}

// EndImpersonation clears the overlay. Safe to call when not impersonating.
func (s *Session) EndImpersonation() {
	s.mu.Lock()
	s.impersonated = nil
	s.mu.Unlock()
}

// Manager owns all sessions, one per authenticated principal.
type Manager struct {
	mu       sync.Mutex
	accounts store.AccountStore
	sessions map[string]*Session
}

func NewManager(accts store.AccountStore) *Manager {
	return &Manager{
		accounts: accts,
		sessions: make(map[string]*Session),
	}
}

// Resolve maps an authenticated principal to its session, refreshing the
// identity snapshots from the account store. A principal with no account
// record yields ErrAccountMissing and the session is torn down.
func (m *Manager) Resolve(ctx context.Context, principalID string) (*Session, error) {
	real, err := m.accounts.Get(ctx, principalID)
	if errors.Is(err, store.ErrNotFound) {
		m.SignOut(principalID)
		return nil, ErrAccountMissing
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	sess, ok := m.sessions[principalID]
	if !ok {
		sess = &Session{accounts: m.accounts}
		m.sessions[principalID] = sess
	}
	m.mu.Unlock()

	sess.mu.Lock()
	sess.real = real
	sess.mu.Unlock()

	// Keep the overlay snapshot live too; a deleted target ends the overlay.
	if target, ok := sess.Impersonating(); ok {
		fresh, err := m.accounts.Get(ctx, target.ID)
		if errors.Is(err, store.ErrNotFound) {
			sess.EndImpersonation()
		} else if err == nil {
			sess.mu.Lock()
			sess.impersonated = &fresh
			sess.mu.Unlock()
		}
	}

	return sess, nil
}

// SignOut destroys the principal's session. The overlay goes with it.
func (m *Manager) SignOut(principalID string) {
	m.mu.Lock()
	delete(m.sessions, principalID)
	m.mu.Unlock()
}
