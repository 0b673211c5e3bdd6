// components/students/students.go
//
// Maktab students component – the school-wide roster.
//
//------------------------------------------------------------------------------

package students

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component renders the roster page.
type Component struct {
	app *core.App
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "students" }

// Routes attaches the component’s endpoints to the shared router.  The
// school-wide roster is a staff surface.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireAdmin)
		gr.Get("/students", c.handleRoster)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

func (c *Component) handleRoster(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	students, err := c.app.Data.Students(r.Context())
	if err != nil {
		zap.S().Errorw("student roster failed", "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	vctx.Head.SetTitle("Students")
	data := map[string]any{"Ctx": vctx, "Students": students, "Session": vctx.Session}
	if err := view.Render(vctx, w, "students", "roster", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render students", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
