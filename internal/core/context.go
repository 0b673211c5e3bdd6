// internal/core/context.go
//
// Central per-request context.
//
// Context
// -------
// Every handler builds a *core.Context and passes it down to components,
// widgets, and templates.  It bundles:
//
//   - App      — process-wide collaborators (read-only).
//   - Request  — the original *http.Request.
//   - Writer   — convenience http.ResponseWriter.
//   - Head     — builder for the page <head> section.
//   - Info     — parsed UA, IP, URL, and timestamp.
//   - Session  — the gate-resolved identity; SignedIn is false on public
//     pages reached without a live session.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package core

import (
	"net/http"

	"github.com/maktab-dev/maktab/internal/head"
	"github.com/maktab-dev/maktab/internal/requestinfo"
	"github.com/maktab-dev/maktab/internal/session"
)

// Context is passed to components, widgets, and templates.
type Context struct {
	App      *App
	Request  *http.Request
	Writer   http.ResponseWriter
	Head     *head.Builder
	Info     *requestinfo.RequestInfo
	Session  session.Session
	SignedIn bool
}

// NewContext builds the per-request context and seeds head defaults.  The
// session fields are populated when the gate ran earlier in the chain.
func NewContext(app *App, w http.ResponseWriter, r *http.Request) *Context {
	ctx := &Context{
		App:     app,
		Request: r,
		Writer:  w,
		Head:    head.New(),
		Info:    requestinfo.FromContext(r.Context()),
	}
	if ctx.Info == nil {
		ctx.Info = &requestinfo.RequestInfo{}
	}
	if sess, ok := session.FromContext(r.Context()); ok {
		ctx.Session = sess
		ctx.SignedIn = true
	}

	if app != nil && app.Config != nil && app.Config.App.Title != "" {
		ctx.Head.SetTitle(app.Config.App.Title)
	}
	ctx.Head.Meta(`<meta charset="utf-8">`)
	ctx.Head.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	ctx.Head.Link(`<link rel="icon" href="/favicon.ico">`)
	return ctx
}
