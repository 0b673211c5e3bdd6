// components/debug/debug.go
//
// Maktab debug component – echoes the request's parsed metadata as JSON.
// Admin-only; useful when checking proxy headers and UA classification.
//
//------------------------------------------------------------------------------

package debug

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/requestinfo"
	"github.com/maktab-dev/maktab/internal/session"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component exposes the diagnostics endpoint.
type Component struct {
	app *core.App
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "debug" }

// Routes attaches the component’s endpoints to the shared router.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireAdmin)
		gr.Get("/debug", c.handleDebug)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

// handleDebug writes a JSON blob with selected request fields.
func (c *Component) handleDebug(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"url":   r.URL.String(),
		"ua":    r.UserAgent(),
		"query": r.URL.RawQuery,
	}
	if ri := requestinfo.FromContext(r.Context()); ri != nil {
		out["ip"] = ri.IP.String()
		out["lang"] = ri.PrimaryLang
		out["ua_parsed"] = ri.UA
	}
	if sess, ok := session.FromContext(r.Context()); ok {
		out["user"] = sess.Username
		out["role"] = sess.Role
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
