// Package session tracks the authentication state of the app as an explicit
// state machine with edge-triggered change events, rather than diffing a
// mutable previous-session reference.
package session

import (
	"sync"

	"github.com/brewshelf/brewshelf/internal/identity"
)

// State is the observer's position in the auth lifecycle.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// EventKind names an auth-state change notification.
type EventKind string

const (
	EventSignedIn         EventKind = "signed-in"
	EventSignedOut        EventKind = "signed-out"
	EventPasswordRecovery EventKind = "password-recovery"
)

// Event is delivered to subscribers on a state edge. Session is set for
// signed-in and password-recovery events.
type Event struct {
	Kind    EventKind
	Session *identity.Session
}

// Listener receives auth events. Listeners run synchronously on the calling
// goroutine, preserving the confirm → persist → rehydrate ordering the app
// relies on.
type Listener func(Event)

// Observer holds the current session and publishes edge-triggered events.
// Repeated signed-in notifications while already authenticated (token
// refreshes) update the stored session without re-firing the edge, so the
// one-shot migration cannot run twice.
type Observer struct {
	mu        sync.Mutex
	state     State
	current   *identity.Session
	listeners []Listener
}

// New returns an observer in the anonymous state.
func New() *Observer {
	return &Observer{state: StateAnonymous}
}

// Subscribe registers a listener for subsequent events.
func (o *Observer) Subscribe(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns the current auth state.
func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Current returns the active session, or nil while anonymous.
func (o *Observer) Current() *identity.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// UserID returns the authenticated user's id, or "" while anonymous.
func (o *Observer) UserID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return ""
	}
	return o.current.User.ID
}

// BeginSignIn marks a sign-in attempt in flight. Only the anonymous state
// can enter authenticating.
func (o *Observer) BeginSignIn() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateAnonymous {
		return false
	}
	o.state = StateAuthenticating
	return true
}

// SignInFailed returns an authenticating observer to anonymous.
func (o *Observer) SignInFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateAuthenticating {
		o.state = StateAnonymous
	}
}

// SignedIn records the session. The signed-in event fires only on the edge
// into authenticated; while already authenticated the session is refreshed
// silently.
func (o *Observer) SignedIn(s *identity.Session) {
	o.mu.Lock()
	wasAuthenticated := o.state == StateAuthenticated
	o.state = StateAuthenticated
	o.current = s
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	if wasAuthenticated {
		return
	}
	dispatch(listeners, Event{Kind: EventSignedIn, Session: s})
}

// SignedOut discards the session and fires the signed-out event. A no-op
// while already anonymous.
func (o *Observer) SignedOut() {
	o.mu.Lock()
	wasAnonymous := o.state == StateAnonymous
	o.state = StateAnonymous
	o.current = nil
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	if wasAnonymous {
		return
	}
	dispatch(listeners, Event{Kind: EventSignedOut})
}

// PasswordRecovery forwards the provider's recovery notification. The
// recovery session is authenticated: the user may immediately set a new
// password through it.
func (o *Observer) PasswordRecovery(s *identity.Session) {
	o.mu.Lock()
	o.state = StateAuthenticated
	o.current = s
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	dispatch(listeners, Event{Kind: EventPasswordRecovery, Session: s})
}

func (o *Observer) snapshotListeners() []Listener {
	out := make([]Listener, len(o.listeners))
	copy(out, o.listeners)
	return out
}

func dispatch(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
