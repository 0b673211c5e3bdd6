// components/home/home.go
//
// Maktab home component – the signed-in landing page.
//
//------------------------------------------------------------------------------

package home

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

// Component renders the landing page.
type Component struct {
	app *core.App
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "home" }

// Routes attaches the component’s endpoints to the shared router.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireUser)
		gr.Get("/", c.handleHome)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

func (c *Component) handleHome(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	sess := vctx.Session

	groupHref := ""
	if sess.Group != "" {
		groupHref = routing.BuildPath("group", routing.MakeSlug(sess.Group))
	}

	data := map[string]any{
		"Ctx":         vctx,
		"Session":     sess,
		"ProfileHref": sess.ProfilePath(),
		"GroupHref":   groupHref,
		"IsAdmin":     sess.IsAdmin(),
	}
	if err := view.Render(vctx, w, "home", "home", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render home", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
