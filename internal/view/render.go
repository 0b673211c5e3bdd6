// internal/view/render.go
//
// Central view engine: template lookup, override chain, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (widgets, e-mails).
//
// Lookup precedence (first hit wins):
//   1. components/<comp>/templates/<tpl>.html
//   2. templates/<tpl>.html            (shared layouts and partials)
//
// All templates in the same directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.  The shared templates/
// directory is always parsed into the set as well, so pages can wrap
// themselves in {{ template "base" . }}.
//
// execName() chooses the best template to execute:
//   - If the set contains "<name>.html", we run that (file has no define).
//   - Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/maktab-dev/maktab/internal/cache"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/viewhelpers"
	"github.com/maktab-dev/maktab/internal/widget"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // obey global TTL
	CacheSkip                       // never cache
	CacheForce                      // always cache (long TTL, reserved)
)

// Parsed template sets; tweak capacity when perf-testing.
var tmplLRU = cache.New(1024)

//
// public helpers
//

// Render executes the template set and streams it to w.
//
// We first load (or parse) the appropriate template set, then execute the
// concrete template determined by execName().  This allows both:
//
//   - A simple file "signin.html" with no {{ define }} block.  In that case
//     execName runs "signin.html" automatically.
//   - A file that wraps markup in {{ define "signin" }} … {{ end }} and
//     relies on that root template name.
//
// Either style works; developers can choose per component.
func Render(ctx *core.Context, w http.ResponseWriter, comp, name string, data any, policy CachePolicy) error {
	t, err := load(ctx, comp, name, policy)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, execName(t, name), data)
}

// RenderToString executes and returns HTML (used by widgets and e-mail
// generators).  It mirrors Render, but writes to a buffer instead of w.
func RenderToString(ctx *core.Context, comp, name string, data any) (template.HTML, CachePolicy, error) {
	t, err := load(ctx, comp, name, CacheDefault)
	if err != nil {
		return "", CacheSkip, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", CacheSkip, err
	}
	return template.HTML(buf.String()), CacheDefault, nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// component and base name, obeying the provided cache policy.
func load(ctx *core.Context, comp, name string, policy CachePolicy) (*template.Template, error) {
	root := rootDir(ctx)
	key := strings.Join([]string{comp, name}, "::")

	if policy != CacheSkip {
		if v, ok := tmplLRU.Get(key); ok {
			return v.(*template.Template), nil
		}
	}

	paths := []string{
		filepath.Join(root, "components", comp, "templates", name+".html"),
		filepath.Join(root, "templates", name+".html"),
	}

	var base string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			base = p
			break
		}
	}
	if base == "" {
		return nil, os.ErrNotExist
	}

	// Parse all *.html in the same directory so sub-templates work.
	t, err := template.New(name).Funcs(buildFuncMap(ctx)).
		ParseGlob(filepath.Join(filepath.Dir(base), "*.html"))
	if err != nil {
		return nil, err
	}

	// Fold in the shared layouts unless we already parsed that directory.
	shared := filepath.Join(root, "templates")
	if filepath.Dir(base) != shared {
		if _, err := os.Stat(shared); err == nil {
			if t, err = t.ParseGlob(filepath.Join(shared, "*.html")); err != nil {
				return nil, err
			}
		}
	}

	if policy != CacheSkip {
		tmplLRU.Add(key, t)
	}
	return t, nil
}

// rootDir resolves the directory that holds components/ and templates/.
func rootDir(ctx *core.Context) string {
	if ctx != nil && ctx.App != nil && ctx.App.Config != nil && ctx.App.Config.Paths.Root != "" {
		return ctx.App.Config.Paths.Root
	}
	return "."
}

//
// func-map builders
//

func buildFuncMap(rctx *core.Context) template.FuncMap {
	fm := template.FuncMap{
		"dict":   dict,
		"widget": widgetFunc(rctx),
	}
	for k, v := range uaFuncMap() { // UA helpers (browser/os parsing)
		fm[k] = v
	}
	for k, v := range viewhelpers.FuncMap() { // display formatting
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// widgetFunc renders a registered widget and returns safe HTML.  Errors are
// hidden behind <!-- comments --> so end-users never see stack traces.
func widgetFunc(rctx *core.Context) func(string, map[string]any) template.HTML {
	return func(key string, params map[string]any) template.HTML {
		w := widget.Lookup(key)
		if w == nil {
			return template.HTML("<!-- widget not found -->")
		}
		html, _, err := w.Render(rctx, params)
		if err != nil {
			return template.HTML("<!-- widget error -->")
		}
		return template.HTML(html)
	}
}
