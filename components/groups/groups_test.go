package groups

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/config"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/session"
)

func newTestRouter(t *testing.T) (chi.Router, *backend.FakeData) {
	t.Helper()
	auth := backend.NewFakeAuth()
	auth.Users["tok-admin"] = &backend.AuthUser{
		ID: "u-1", Email: "admin@example.com", Role: "admin",
		Metadata: map[string]any{"username": "admin1", "fullname": "admin one"},
	}
	auth.Users["tok-member"] = &backend.AuthUser{
		ID: "u-2", Email: "kareem@example.com", Role: "student",
		Metadata: map[string]any{
			"username": "kareem", "fullname": "kareem abdul", "group": "alif group",
		},
	}
	data := backend.NewFakeData()
	data.GroupRows = []backend.Group{
		{ID: "g-1", Name: "Alif Group"},
		{ID: "g-2", Name: "Ba Group", Closed: true},
	}
	data.Members["Alif Group"] = []string{"kareem abdul", "sara noor"}
	data.Lessons["g-1"] = []backend.Lesson{{Name: "Qaida", Textbook: "Book 1"}}

	mgr := session.NewManager(auth, session.IdleTTL, session.MaxEntries)
	t.Cleanup(mgr.Stop)

	app := &core.App{
		Config: &config.Config{
			App:   config.App{BaseURL: "https://maktab.example", Title: "Maktab"},
			Paths: config.Paths{Root: "../.."},
		},
		Auth:     auth,
		Data:     data,
		Sessions: mgr,
		Gate:     session.NewGate(mgr),
		Watcher:  backend.NewGroupWatcher(data, 0),
	}
	r := chi.NewRouter()
	(&Component{}).Routes(app, r)
	return r, data
}

func signedIn(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "maktab_auth", Value: token})
	return req
}

func TestGroupsRequireSignIn(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/groups", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != session.SignInPath {
		t.Fatalf("location = %q", loc)
	}
}

func TestGroupListRendersSlugLinks(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/groups", nil), "tok-admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/group/alif-group"`) {
		t.Fatalf("slug link missing:\n%s", body)
	}
	if !strings.Contains(body, "closed") {
		t.Fatalf("closed badge missing")
	}
}

func TestGroupDetailResolvesSlug(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/group/alif-group", nil), "tok-admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Alif Group") {
		t.Fatalf("group name missing")
	}
	if !strings.Contains(body, "Kareem Abdul") {
		t.Fatalf("member names not capitalized for display:\n%s", body)
	}
	if !strings.Contains(body, "Qaida") {
		t.Fatalf("lesson missing")
	}
}

func TestGroupDetailExactNameStillWorks(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/group/Alif%20Group", nil), "tok-admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGroupDetailUnknownIs404(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/group/nope", nil), "tok-admin"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGroupListHiddenFromStudents(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/groups", nil), "tok-member"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGroupDetailVisibleToOwnMembers(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/group/alif-group", nil), "tok-member"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
}

func TestGroupDetailHiddenFromNonMembers(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest("GET", "/group/ba-group", nil), "tok-member"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
