// internal/session/cookie.go
//
// Maktab – Session subsystem: access-token cookie.
//
// Context
//   The auth callback stores the service-issued access token in an HttpOnly
//   cookie named "maktab_auth".  The token is opaque to us; the auth service
//   validates it on every provider resolve, so the cookie itself carries no
//   trust.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"
)

const cookieName = "maktab_auth"

// SetToken stores the access token for subsequent requests.
func SetToken(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearToken drops the access-token cookie.
func ClearToken(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// TokenFrom returns the access token carried by the request, or "".
func TokenFrom(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
