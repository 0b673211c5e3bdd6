package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/config"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/session"
	"github.com/maktab-dev/maktab/internal/validate"
)

func newTestApp(t *testing.T) (*core.App, *backend.FakeAuth) {
	t.Helper()
	fake := backend.NewFakeAuth()
	mgr := session.NewManager(fake, session.IdleTTL, session.MaxEntries)
	t.Cleanup(mgr.Stop)

	app := &core.App{
		Config: &config.Config{
			App:   config.App{BaseURL: "https://maktab.example", Title: "Maktab"},
			Paths: config.Paths{Root: "../.."},
		},
		Auth:       fake,
		Validators: validate.NewRegistry(nil),
		Sessions:   mgr,
		Gate:       session.NewGate(mgr),
	}
	return app, fake
}

func newTestRouter(t *testing.T) (chi.Router, *backend.FakeAuth) {
	t.Helper()
	app, fake := newTestApp(t)
	r := chi.NewRouter()
	(&Component{}).Routes(app, r)
	return r, fake
}

func TestSignInPageRenders(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/signin", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email me a sign-in link") {
		t.Fatalf("body missing submit button:\n%s", rec.Body.String())
	}
}

func TestSignInPageShowsSessionEndNotice(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/signin?m=sr", nil))

	if !strings.Contains(rec.Body.String(), "Your session has ended") {
		t.Fatalf("session-end notice missing")
	}
}

func TestSignInSubmitRequestsLinkAndRedirects(t *testing.T) {
	r, fake := newTestRouter(t)
	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	body := url.Values{"_csrf": {tok}, "email": {"kareem@example.com"}}
	req := httptest.NewRequest("POST", "/signin", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/check-email" {
		t.Fatalf("location = %q", loc)
	}
	if len(fake.Requests) != 1 {
		t.Fatalf("requests = %d", len(fake.Requests))
	}
	got := fake.Requests[0]
	if got.Email != "kareem@example.com" || got.CreateUser {
		t.Fatalf("request = %+v", got)
	}
	var fromAuth bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == fromAuthCookie && c.Value != "" {
			fromAuth = true
		}
	}
	if !fromAuth {
		t.Fatalf("fromAuth cookie not set")
	}
}

func TestSignInSubmitClearsDraftOnSuccess(t *testing.T) {
	r, _ := newTestRouter(t)
	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	body := url.Values{"_csrf": {tok}, "email": {"kareem@example.com"}}
	req := httptest.NewRequest("POST", "/signin", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	var draft *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if strings.HasPrefix(c.Name, "maktab_draft_") {
			draft = c
		}
	}
	if draft == nil {
		t.Fatal("no draft cookie on the response")
	}
	// The submitted address must not be re-offered on the next /signin.
	if draft.Value != "" || draft.MaxAge >= 0 {
		t.Fatalf("draft survived the submit: value=%q maxage=%d", draft.Value, draft.MaxAge)
	}
}

func TestSignInSubmitRejectsBadCSRF(t *testing.T) {
	r, fake := newTestRouter(t)
	body := url.Values{"_csrf": {"forged"}, "email": {"kareem@example.com"}}
	req := httptest.NewRequest("POST", "/signin", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(fake.Requests) != 0 {
		t.Fatalf("forged submit reached the auth service")
	}
}

func TestSignInSubmitEchoesValidationError(t *testing.T) {
	r, fake := newTestRouter(t)
	tok, _ := form.GenerateToken()
	body := url.Values{"_csrf": {tok}, "email": {"not-an-email"}}
	req := httptest.NewRequest("POST", "/signin", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(fake.Requests) != 0 {
		t.Fatalf("invalid email reached the auth service")
	}
	if !strings.Contains(rec.Body.String(), "not-an-email") {
		t.Fatalf("submitted value not echoed back")
	}
}

func TestCheckEmailRequiresRecentSubmit(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/check-email", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/signin" {
		t.Fatalf("location = %q", loc)
	}
}

func TestCallbackStoresTokenAndRedirectsHome(t *testing.T) {
	r, fake := newTestRouter(t)
	fake.Users["tok-1"] = &backend.AuthUser{
		ID: "u-1", Email: "kareem@example.com", Role: "student",
		Metadata: map[string]any{"username": "kareem"},
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/callback?access_token=tok-1", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("location = %q", loc)
	}
	var stored bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "maktab_auth" && c.Value == "tok-1" {
			stored = true
		}
	}
	if !stored {
		t.Fatalf("auth cookie not stored")
	}
}

func TestSignOutRevokesAndClears(t *testing.T) {
	r, fake := newTestRouter(t)
	fake.Users["tok-1"] = &backend.AuthUser{ID: "u-1", Email: "kareem@example.com", Role: "student"}

	req := httptest.NewRequest("POST", "/signout", nil)
	req.AddCookie(&http.Cookie{Name: "maktab_auth", Value: "tok-1"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := fake.Users["tok-1"]; ok {
		t.Fatalf("token not revoked")
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "maktab_auth" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("auth cookie not cleared")
	}
}
