// Package session keeps the signed-in state of a client and tells
// interested parties when it changes. Business services never read it;
// callers pass identifiers explicitly.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/trainer-link/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrClosed         = errors.New("session manager closed")
	ErrAlreadyStarted = errors.New("session manager already started")
)

// Session is an authenticated identity and its bearer token.
type Session struct {
	UserID    uuid.UUID   `json:"userId"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the token is past its expiry at now. A zero
// ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// State is what subscribers see. Loading is true until Start finishes.
type State struct {
	Session *Session
	Loading bool
}

// SignedIn reports whether State holds a session.
func (s State) SignedIn() bool {
	return s.Session != nil
}

// Restorer loads a previously saved session, if any. A nil session with a
// nil error means there was nothing to restore.
type Restorer interface {
	Restore(ctx context.Context) (*Session, error)
}

// Listener receives every state change.
type Listener func(State)

// Manager owns the current session. Create one per client process, Start
// it once, and Close it on shutdown.
type Manager struct {
	mu        sync.Mutex
	state     State
	listeners map[uint64]Listener
	nextID    uint64
	started   bool
	closed    bool
	now       func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		state:     State{Loading: true},
		listeners: map[uint64]Listener{},
		now:       time.Now,
	}
}

// Start restores the saved session (an expired one is dropped) and ends
// the loading state. A nil Restorer starts signed out.
func (m *Manager) Start(ctx context.Context, r Restorer) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	var restored *Session
	var err error
	if r != nil {
		restored, err = r.Restore(ctx)
		if restored != nil && restored.Expired(m.now()) {
			restored = nil
		}
	}

	m.set(State{Session: restored})
	return err
}

// Subscribe registers fn and calls it right away with the current state.
// The returned func unsubscribes; calling it more than once is harmless.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return func() {}
	}
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	current := m.state
	m.mu.Unlock()

	fn(copyState(current))

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// SignedIn replaces the current session.
func (m *Manager) SignedIn(s Session) error {
	return m.set(State{Session: &s})
}

// SignedOut clears the current session.
func (m *Manager) SignedOut() error {
	return m.set(State{})
}

// Current returns a copy of the current state. An expired session reads
// as signed out.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	if st.Session != nil {
		if st.Session.Expired(m.now()) {
			st.Session = nil
		} else {
			cp := *st.Session
			st.Session = &cp
		}
	}
	return st
}

// Close drops every listener; later changes are rejected.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.listeners = map[uint64]Listener{}
}

func (m *Manager) set(st State) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.state = st
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	// listeners run outside the lock so they may call back into the Manager
	for _, l := range listeners {
		l(copyState(st))
	}
	return nil
}

func copyState(st State) State {
	if st.Session != nil {
		cp := *st.Session
		st.Session = &cp
	}
	return st
}
