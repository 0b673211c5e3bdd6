// internal/server/timeouts.go
//
// HTTP server constructor with hardened timeouts.
//
//   • ReadHeaderTimeout – abort slow-loris headers (10 s)
//   • ReadTimeout       – cap request bodies; sign-up image uploads are the
//     largest thing we accept (30 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// WriteTimeout stays zero: the group change feed holds its event-stream
// response open for the lifetime of the page, and a per-connection write
// deadline would sever every listener mid-stream.  Page handlers finish in
// milliseconds regardless.
//

package server

import (
	"net/http"
	"time"
)

// New constructs an *http.Server for addr with the timeouts above.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		// TLSConfig may be injected by callers (e.g., autocert).
	}
}
