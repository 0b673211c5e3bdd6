// internal/form/draft_test.go
//
// Maktab – Forms subsystem: draft persistence tests.
//
//------------------------------------------------------------------------------

package form

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// roundTrip saves via a recorder-bound store, then replays the resulting
// cookie on a fresh request, mimicking a reload.
func roundTrip(t *testing.T, formID string, save func(d *CookieDraft)) *CookieDraft {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	save(NewCookieDraft(formID, w, r))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range w.Result().Cookies() {
		next.AddCookie(ck)
	}
	return NewCookieDraft(formID, httptest.NewRecorder(), next)
}

func TestCookieDraftRoundTrip(t *testing.T) {
	d := roundTrip(t, StudentSignUp, func(d *CookieDraft) {
		d.Save(map[string]string{"fullname": "Mohammad Sadik", "group": "Alif"})
	})

	got, ok := d.Load()
	if !ok {
		t.Fatal("draft not restored")
	}
	if got["fullname"] != "Mohammad Sadik" || got["group"] != "Alif" {
		t.Errorf("restored = %v", got)
	}
}

func TestCookieDraftRejectsTampering(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	NewCookieDraft(SignInID, w, r).Save(map[string]string{"email": "a@b.co"})

	ck := w.Result().Cookies()[0]
	payload, sig, _ := strings.Cut(ck.Value, "|")
	ck.Value = payload + "x|" + sig

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(ck)
	if _, ok := NewCookieDraft(SignInID, httptest.NewRecorder(), next).Load(); ok {
		t.Error("tampered cookie accepted")
	}
}

func TestCookieDraftClearExpires(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	NewCookieDraft(SignInID, w, r).Clear()

	cks := w.Result().Cookies()
	if len(cks) != 1 || cks[0].MaxAge != -1 {
		t.Errorf("clear cookie = %+v", cks)
	}
}

func TestCookieNamePerForm(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	d := NewCookieDraft(StudentSignUp, w, r)
	if got := d.cookieName(); got != "maktab_draft_signup_student" {
		t.Errorf("cookie name = %q", got)
	}
}

func TestMemoryDraftAbsentUntilSaved(t *testing.T) {
	m := NewMemoryDraft()
	if _, ok := m.Load(); ok {
		t.Error("empty store reported a draft")
	}
	m.Save(map[string]string{"k": "v"})
	if got, ok := m.Load(); !ok || got["k"] != "v" {
		t.Errorf("load = %v, %v", got, ok)
	}
	m.Clear()
	if _, ok := m.Load(); ok {
		t.Error("cleared store reported a draft")
	}
}

func TestCookieDraftRepeatedSaveEmitsOneHeader(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	d := NewCookieDraft(StudentSignUp, w, r)

	d.Save(map[string]string{"fullname": "a"})
	d.Save(map[string]string{"fullname": "ab"})
	d.Save(map[string]string{"fullname": "abc"})

	if got := len(w.Header()["Set-Cookie"]); got != 1 {
		t.Fatalf("Set-Cookie headers = %d, want 1", got)
	}
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(w.Result().Cookies()[0])
	vals, ok := NewCookieDraft(StudentSignUp, httptest.NewRecorder(), next).Load()
	if !ok || vals["fullname"] != "abc" {
		t.Fatalf("load = %v, %v", vals, ok)
	}
}
