// components/profile/profile.go
//
// Maktab profile component – per-user profile pages.
//
// Admin profiles are self-only: a signed-in admin may view their own page,
// and anyone else receives not-found rather than forbidden, so the page's
// existence leaks nothing.  Student and teacher pages follow the same rule.
//
//------------------------------------------------------------------------------

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/routing"
	"github.com/maktab-dev/maktab/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component renders profile pages.
type Component struct {
	app *core.App
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "profile" }

// Routes attaches the component’s endpoints to the shared router.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	handler := http.HandlerFunc(c.handleProfile)
	r.Method(http.MethodGet, "/u/admin/{username}", app.Gate.RequireSelf("username", handler))
	r.Method(http.MethodGet, "/u/teacher/{username}", app.Gate.RequireSelf("username", handler))
	r.Method(http.MethodGet, "/u/student/{username}", app.Gate.RequireSelf("username", handler))
}

// Register component at program start.
func init() { component.Register(&Component{}) }

func (c *Component) handleProfile(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	sess := vctx.Session

	groupHref := ""
	if sess.Group != "" {
		groupHref = routing.BuildPath("group", routing.MakeSlug(sess.Group))
	}

	vctx.Head.SetTitle("Profile")
	data := map[string]any{
		"Ctx":       vctx,
		"Session":   sess,
		"GroupHref": groupHref,
	}
	if err := view.Render(vctx, w, "profile", "profile", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render profile", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
