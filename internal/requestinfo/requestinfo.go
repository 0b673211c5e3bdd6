//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP, URL, and timestamp).  These structs
//  are inert.  They contain no pointers to database handles or large
//  buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua (github.com/avct/uasurfer underneath)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/maktab-dev/maktab/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// RequestInfo is attached to the per-request context and is therefore
// visible to components, widgets, and templates.
type RequestInfo struct {
	UA          ua.Info
	PrimaryLang string   // First tag from Accept-Language ("en", "es", ...)
	IP          net.IP   // Original client address (not the full XFF chain)
	URL         *url.URL // Pointer copy, safe to dereference read-only
	Timestamp   time.Time
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//
//  The Enrich middleware stores *RequestInfo inside net/context so that
//  any code holding only http.Request can still retrieve the struct
//  without reference to the project’s custom Context.
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	parts := strings.Split(al, ",")
	tag := strings.TrimSpace(parts[0])
	if i := strings.Index(tag, ";"); i != -1 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
