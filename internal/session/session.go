// internal/session/session.go
//
// Maktab – Session subsystem: identity model and per-visitor provider.
//
// Context
//   A Provider tracks one visitor's authentication state.  It starts in
//   StateLoading, resolves to StateAuthenticated or StateAnonymous by asking
//   the auth service about the visitor's access token, and afterwards follows
//   pushed auth events (sign-in, sign-out, token refresh) for its token.
//
//   The three-state split is load-bearing for the page gate (see gate.go):
//   while a provider is still loading, no access decision may be made.  A
//   fetch failure therefore leaves the provider in StateLoading rather than
//   guessing either way.
//
// Workflow
//   •  NewProvider(auth, token)  → loading provider, subscribed to events.
//   •  Resolve(ctx)              → one fetch; settles the state.
//   •  Snapshot()                → current (State, Session) pair.
//   •  Close()                   → cancels the event subscription.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/maktab-dev/maktab/internal/backend"
)

// State is the provider's position in the loading → settled lifecycle.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "loading"
	}
}

// Session is the signed-in identity as pages consume it.  Profile fields
// come from the metadata stored on the auth user at sign-up time.
type Session struct {
	UserID    string
	Email     string
	Role      string // empty means student
	Username  string
	FullName  string
	Group     string
	JoinedOn  string // YYYY-MM-DD
	AvatarURL string
}

// IsAdmin reports whether the session may reach admin-only pages.
func (s Session) IsAdmin() bool { return s.Role == "admin" }

// ProfilePath returns the session's own profile URL.
func (s Session) ProfilePath() string {
	role := s.Role
	if role == "" {
		role = "student"
	}
	return "/u/" + role + "/" + s.Username
}

// fromAuthUser projects the auth service's record onto a Session.
func fromAuthUser(u *backend.AuthUser) Session {
	sess := Session{UserID: u.ID, Email: u.Email, Role: u.Role}
	meta := func(key string) string {
		if v, ok := u.Metadata[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	if sess.Role == "" {
		sess.Role = meta("role")
	}
	sess.Username = meta("username")
	sess.FullName = meta("fullname")
	sess.Group = meta("group")
	sess.JoinedOn = meta("joinedOn")
	sess.AvatarURL = meta("profileImageUrl")
	return sess
}

// Provider holds one visitor's auth state.  Safe for concurrent use.
type Provider struct {
	auth  backend.AuthAPI
	token string

	mu    sync.Mutex
	state State
	sess  Session

	cancel func()
}

// NewProvider returns a loading provider for token and subscribes it to auth
// events.  Call Resolve to settle the initial state and Close when done.
func NewProvider(auth backend.AuthAPI, token string) *Provider {
	p := &Provider{auth: auth, token: token, state: StateLoading}
	p.cancel = auth.Subscribe(p.onEvent)
	return p
}

// Resolve performs the initial token lookup.  An unknown or empty token
// settles to anonymous; a transport failure keeps the provider loading and
// is returned so the caller can retry.
func (p *Provider) Resolve(ctx context.Context) error {
	if p.token == "" {
		p.settle(StateAnonymous, Session{})
		return nil
	}

	u, err := p.auth.UserForToken(ctx, p.token)
	switch {
	case errors.Is(err, backend.ErrNotFound):
		p.settle(StateAnonymous, Session{})
		return nil
	case err != nil:
		return err
	}
	p.settle(StateAuthenticated, fromAuthUser(u))
	return nil
}

// Snapshot returns the current state and, when authenticated, the session.
func (p *Provider) Snapshot() (State, Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.sess
}

// Close cancels the event subscription.  The provider stays readable.
func (p *Provider) Close() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Provider) settle(st State, sess Session) {
	p.mu.Lock()
	p.state = st
	p.sess = sess
	p.mu.Unlock()
}

// onEvent follows pushed auth-state changes for this provider's token.
// Events for other tokens are ignored; the auth client publishes every
// change to every subscriber, and one visitor signing out must not log
// out the rest.
func (p *Provider) onEvent(ev backend.AuthEvent) {
	if ev.Token != p.token {
		return
	}
	switch ev.Type {
	case backend.EventSignedOut:
		p.settle(StateAnonymous, Session{})
	case backend.EventSignedIn, backend.EventTokenRefreshed:
		if ev.User == nil {
			return
		}
		p.settle(StateAuthenticated, fromAuthUser(ev.User))
	}
}
