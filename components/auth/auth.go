// components/auth/auth.go
//
// Maktab authentication component – passwordless sign-in flow.
//
//------------------------------------------------------------------------------

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/authflow"
	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/session"
	"github.com/maktab-dev/maktab/internal/view"
)

// fromAuthCookie gates /check-email so it cannot be reached by typing the
// URL.  Sixty seconds mirrors the window between requesting a link and
// reading the confirmation page.
const (
	fromAuthCookie = "fromAuth"
	fromAuthTTL    = 60 * time.Second
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates sign-in, sign-out, and link redemption.
type Component struct {
	app *core.App
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Routes attaches the component’s endpoints to the shared router.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Get("/signin", c.handleSignInGET)
	r.Post("/signin", c.handleSignInPOST)
	r.Get("/check-email", c.handleCheckEmail)
	r.Get("/auth/callback", c.handleCallback)
	r.Post("/signout", c.handleSignOut)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleSignInGET(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	ctrl := c.newController(w, r)
	ctrl.Initialize(r.Context())
	ctrl.Flush()
	c.render(vctx, w, ctrl, "")
}

func (c *Component) handleSignInPOST(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	if !form.VerifyToken(r.PostFormValue("_csrf")) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	ctrl := c.newController(w, r)
	ctrl.Initialize(r.Context())
	if _, err := form.BindRequest(r.Context(), ctrl, r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	flow := authflow.NewSignInFlow(c.app.Auth, c.app.Config.App.BaseURL)
	out := flow.Submit(r.Context(), ctrl)
	if out.Redirect != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     fromAuthCookie,
			Value:    "1",
			Path:     "/",
			MaxAge:   int(fromAuthTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
		return
	}
	c.render(vctx, w, ctrl, out.Message)
}

// handleCheckEmail renders the “link sent” page, but only right after a
// submission.  Cold visits bounce back to the form.
func (c *Component) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(fromAuthCookie); err != nil {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}
	vctx := core.NewContext(c.app, w, r)
	vctx.Head.SetTitle("Check your email")
	if err := view.Render(vctx, w, "auth", "check-email", map[string]any{"Ctx": vctx}, view.CacheSkip); err != nil {
		zap.S().Errorw("render check-email", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// handleCallback redeems the emailed link: the auth service appends the
// access token to the redirect, and we move it into the session cookie.
func (c *Component) handleCallback(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("access_token")
	if tok == "" {
		tok = r.URL.Query().Get("token")
	}
	if tok == "" {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}
	session.SetToken(w, r, tok)

	// Warm the provider so the landing page renders without a placeholder.
	if _, err := c.app.Sessions.Get(r.Context(), tok); err != nil {
		zap.S().Warnw("callback resolve failed", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Component) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if tok := session.TokenFrom(r); tok != "" {
		if err := c.app.Auth.SignOut(r.Context(), tok); err != nil {
			zap.S().Warnw("sign-out failed", "err", err)
		}
		c.app.Sessions.Drop(tok)
	}
	session.ClearToken(w, r)
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

func (c *Component) newController(w http.ResponseWriter, r *http.Request) *form.Controller {
	fields := form.SignInFields(c.app.Validators)
	return form.NewController(fields, form.NewCookieDraft(form.SignInID, w, r))
}

func (c *Component) render(vctx *core.Context, w http.ResponseWriter, ctrl *form.Controller, msg string) {
	tok, err := form.GenerateToken()
	if err != nil {
		zap.S().Errorw("csrf token", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	vctx.Head.SetTitle("Sign in")
	data := map[string]any{
		"Ctx":        vctx,
		"CSRF":       tok,
		"Fields":     ctrl.Fields(),
		"Values":     ctrl.TextValues(),
		"Errors":     ctrl.Errors(),
		"Focus":      ctrl.Focus(),
		"Message":    msg,
		"SessionEnd": vctx.Request.URL.Query().Get("m") == "sr",
	}
	if err := view.Render(vctx, w, "auth", "signin", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render signin", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
