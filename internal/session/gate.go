// internal/session/gate.go
//
// Maktab – Session subsystem: page gate.
//
// Context
//   Every protected page runs through the same ordered checks, and the order
//   is not negotiable:
//
//     1. provider still loading   → placeholder page, no decisions
//     2. anonymous                → redirect to /signin?m=sr
//     3. role or identity mismatch → not-found (the page's existence is
//        not revealed to the wrong audience)
//     4. authenticated and matched → render
//
//   A loading provider means the initial token fetch has not settled, so the
//   gate declines to guess: it serves a self-refreshing placeholder and the
//   next request retries the resolve.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignInPath is where anonymous visitors are sent.  The marker query param
// lets the sign-in page explain why they landed there.
const SignInPath = "/signin?m=sr"

// Gate wires the session manager into chi middleware.
type Gate struct {
	Manager *Manager

	// NotFound renders the identity-mismatch response.  Defaults to the
	// plain-text 404.
	NotFound http.HandlerFunc
}

// NewGate returns a Gate over mgr.
func NewGate(mgr *Manager) *Gate {
	return &Gate{Manager: mgr, NotFound: http.NotFound}
}

// RequireUser admits only settled, authenticated visitors.  The session is
// placed on the request context for the wrapped handler.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prov, err := g.Manager.Get(r.Context(), TokenFrom(r))
		if err != nil {
			// Resolve failed; the state is unknown, not anonymous.
			zap.S().Warnw("session resolve failed", "err", err)
			g.placeholder(w)
			return
		}

		state, sess := prov.Snapshot()
		switch state {
		case StateLoading:
			g.placeholder(w)
		case StateAnonymous:
			http.Redirect(w, r, SignInPath, http.StatusSeeOther)
		case StateAuthenticated:
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		}
	})
}

// RequireAdmin narrows RequireUser to sessions whose role is admin.  Others
// get the not-found response rather than a forbidden one.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := FromContext(r.Context())
		if !sess.IsAdmin() {
			g.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireSelf narrows RequireUser to requests whose {param} URL segment
// matches the session's own username, case-insensitively.
func (g *Gate) RequireSelf(param string, next http.Handler) http.Handler {
	return g.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := FromContext(r.Context())
		want := chi.URLParam(r, param)
		if sess.Username == "" || !strings.EqualFold(sess.Username, want) {
			g.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// placeholder is the no-decision response for an unsettled provider.  The
// refresh header retries shortly without client script.
func (g *Gate) placeholder(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Refresh", "1")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Loading</title><p>Loading…</p>"))
}
