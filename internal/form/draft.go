// internal/form/draft.go
//
// Maktab – Forms subsystem: draft persistence.
//
// Context
//   Text input typed into a form survives a page reload.  The controller
//   writes a flat name→string projection of its text-like fields after every
//   change and overlays it onto the declared defaults at Initialize time.
//   File selections are never persisted.
//
//   Two stores ship:
//
//   •  MemoryDraft  – in-process map, used by tests and by per-session state.
//   •  CookieDraft  – the browser round-trip store.  The payload rides in a
//      cookie as base64url(JSON) | HMAC_SHA256(secret, payload), signed with
//      the same process secret as the CSRF token so a tampered cookie is
//      dropped wholesale rather than partially trusted.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DraftStore persists in-progress text values for one form.
type DraftStore interface {
	// Load returns the saved values and whether a draft existed at all.
	Load() (map[string]string, bool)
	// Save replaces the stored draft.
	Save(values map[string]string)
	// Clear drops the stored draft.
	Clear()
}

// MemoryDraft is a DraftStore backed by an in-process map.
type MemoryDraft struct {
	mu     sync.Mutex
	values map[string]string
	set    bool
}

// NewMemoryDraft returns an empty in-memory draft store.
func NewMemoryDraft() *MemoryDraft { return &MemoryDraft{} }

func (m *MemoryDraft) Load() (map[string]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false
	}
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, true
}

func (m *MemoryDraft) Save(values map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string, len(values))
	for k, v := range values {
		m.values[k] = v
	}
	m.set = true
}

func (m *MemoryDraft) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	m.set = false
}

const (
	draftCookiePrefix = "maktab_draft_"
	draftMaxAge       = 7 * 24 * time.Hour
)

// CookieDraft reads the draft from an inbound request and queues the
// replacement Set-Cookie on the response.  One instance serves one request.
type CookieDraft struct {
	formID string
	r      *http.Request
	w      http.ResponseWriter
}

// NewCookieDraft binds a draft store for formID to one request/response pair.
func NewCookieDraft(formID string, w http.ResponseWriter, r *http.Request) *CookieDraft {
	return &CookieDraft{formID: formID, r: r, w: w}
}

// cookieName flattens the form ID ("signup/student" → "maktab_draft_signup_student").
func (c *CookieDraft) cookieName() string {
	return draftCookiePrefix + strings.ReplaceAll(c.formID, "/", "_")
}

func (c *CookieDraft) Load() (map[string]string, bool) {
	ck, err := c.r.Cookie(c.cookieName())
	if err != nil || ck.Value == "" {
		return nil, false
	}

	payload, sig, ok := strings.Cut(ck.Value, "|")
	if !ok {
		return nil, false
	}
	wantSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, false
	}
	mac := hmac.New(sha256.New, fetchSecret())
	mac.Write([]byte(payload))
	if !hmac.Equal(mac.Sum(nil), wantSig) {
		return nil, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	return values, true
}

func (c *CookieDraft) Save(values map[string]string) {
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)

	mac := hmac.New(sha256.New, fetchSecret())
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	c.setCookie(&http.Cookie{
		Name:     c.cookieName(),
		Value:    payload + "|" + sig,
		Path:     "/",
		MaxAge:   int(draftMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieDraft) Clear() {
	c.setCookie(&http.Cookie{
		Name:     c.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setCookie replaces any Set-Cookie header this store already queued.  A
// bind touches every field, and each touch persists; without the replace a
// single POST would emit one header per field.
func (c *CookieDraft) setCookie(ck *http.Cookie) {
	prefix := c.cookieName() + "="
	hdr := c.w.Header()
	kept := hdr["Set-Cookie"][:0]
	for _, line := range hdr["Set-Cookie"] {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		hdr.Del("Set-Cookie")
	} else {
		hdr["Set-Cookie"] = kept
	}
	http.SetCookie(c.w, ck)
}
