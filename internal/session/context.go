// context.go carries the resolved session through the request context so
// handlers past the gate can read it without re-resolving.
package session

import "context"

type ctxKey int

const sessionKey ctxKey = iota

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext returns the session placed by the gate.  ok is false on
// requests that never passed RequireUser.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}
