// components/contact/contact.go
//
// Maktab contact component – the support form.  Submissions are queued as
// outbound email; delivery happens off the request path.
//
//------------------------------------------------------------------------------

package contact

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/message"
	"github.com/maktab-dev/maktab/internal/view"
)

// supportInbox receives contact-form submissions.
const supportInbox = "support@maktab.example"

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the contact form.
type Component struct {
	app *core.App
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Routes attaches the component’s endpoints to the shared router.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Get("/contact", c.handleGET)
	r.Post("/contact", c.handlePOST)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

func (c *Component) handleGET(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "", nil)
}

func (c *Component) handlePOST(w http.ResponseWriter, r *http.Request) {
	if !form.VerifyToken(r.PostFormValue("_csrf")) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	body := strings.TrimSpace(r.PostFormValue("message"))

	errs := map[string]string{}
	if name == "" {
		errs["name"] = "Name is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "A valid email address is required"
	}
	if body == "" {
		errs["message"] = "Message is required"
	}
	if len(errs) > 0 {
		c.render(w, r, "", errs)
		return
	}

	err := message.EnqueueEmail(r.Context(), message.Email{
		To:      []string{supportInbox},
		Subject: "Contact form: " + name,
		Text:    "From: " + name + " <" + email + ">\n\n" + body,
	})
	if err != nil {
		zap.S().Errorw("contact enqueue failed", "err", err)
		c.render(w, r, "", map[string]string{"message": "Something went wrong. Please try again."})
		return
	}
	c.render(w, r, "Thanks! We'll get back to you soon.", nil)
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, flash string, errs map[string]string) {
	vctx := core.NewContext(c.app, w, r)
	tok, err := form.GenerateToken()
	if err != nil {
		zap.S().Errorw("csrf token", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	vctx.Head.SetTitle("Contact")
	data := map[string]any{
		"Ctx":     vctx,
		"CSRF":    tok,
		"Flash":   flash,
		"Errors":  errs,
		"Prefill": r.PostForm,
	}
	if err := view.Render(vctx, w, "contact", "contact", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render contact", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
