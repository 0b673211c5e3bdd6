// components/signup/signup.go
//
// Maktab sign-up component – admin-only provisioning of students, teachers,
// and further admins via magic-link invites.
//
//------------------------------------------------------------------------------

package signup

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/authflow"
	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the two sign-up forms.
type Component struct {
	app *core.App
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "signup" }

// Routes attaches the component’s endpoints to the shared router.  Both
// forms are for staff use only, so the subtree sits behind the admin gate.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireAdmin)
		gr.Get("/new-user/student", c.handleGET(form.StudentSignUp))
		gr.Post("/new-user/student", c.handlePOST(form.StudentSignUp))
		gr.Get("/new-user/admin", c.handleGET(form.AdminSignUp))
		gr.Post("/new-user/admin", c.handlePOST(form.AdminSignUp))
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleGET(formID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vctx := core.NewContext(c.app, w, r)
		ctrl, err := c.newController(r.Context(), formID, w, r)
		if err != nil {
			zap.S().Errorw("sign-up form build failed", "form", formID, "err", err)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		ctrl.Initialize(r.Context())
		ctrl.Flush()
		c.render(vctx, w, formID, ctrl, authflow.Outcome{})
	}
}

func (c *Component) handlePOST(formID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vctx := core.NewContext(c.app, w, r)
		if !form.VerifyToken(r.PostFormValue("_csrf")) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		ctrl, err := c.newController(r.Context(), formID, w, r)
		if err != nil {
			zap.S().Errorw("sign-up form build failed", "form", formID, "err", err)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		ctrl.Initialize(r.Context())

		fh, err := form.BindRequest(r.Context(), ctrl, r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		var image io.Reader
		if fh != nil {
			f, err := fh.Open()
			if err != nil {
				zap.S().Warnw("profile image open failed", "err", err)
			} else {
				defer f.Close()
				image = f
			}
		}

		flow := authflow.NewSignUpFlow(c.app.Auth, c.app.Data, c.app.Storage,
			c.app.Lookups, c.app.Config.App.BaseURL)
		out := flow.Submit(r.Context(), formID, ctrl, image)
		c.render(vctx, w, formID, ctrl, out)
	}
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// newController builds the right field set for the form ID.  The group
// pool comes from the lookup cache, so an unreachable backend surfaces
// here rather than mid-validation.
func (c *Component) newController(ctx context.Context, formID string, w http.ResponseWriter, r *http.Request) (*form.Controller, error) {
	var (
		fields []form.Field
		err    error
	)
	switch formID {
	case form.AdminSignUp:
		fields, err = form.AdminSignUpFields(ctx, c.app.Validators, c.app.Lookups)
	default:
		fields, err = form.StudentSignUpFields(ctx, c.app.Validators, c.app.Lookups)
	}
	if err != nil {
		return nil, err
	}
	return form.NewController(fields, form.NewCookieDraft(formID, w, r)), nil
}

func (c *Component) render(vctx *core.Context, w http.ResponseWriter, formID string, ctrl *form.Controller, out authflow.Outcome) {
	tok, err := form.GenerateToken()
	if err != nil {
		zap.S().Errorw("csrf token", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	title := "New Student"
	if formID == form.AdminSignUp {
		title = "New Admin"
	}
	vctx.Head.SetTitle(title)
	data := map[string]any{
		"Ctx":         vctx,
		"CSRF":        tok,
		"Title":       title,
		"Action":      vctx.Request.URL.Path,
		"Fields":      ctrl.Fields(),
		"Values":      ctrl.TextValues(),
		"Errors":      ctrl.Errors(),
		"Focus":       ctrl.Focus(),
		"ServerError": out.Message,
		"Flash":       out.Flash,
	}
	if err := view.Render(vctx, w, "signup", "signup", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render signup", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
