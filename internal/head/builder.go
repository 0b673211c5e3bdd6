// internal/head/builder.go
//
// Per-request <head> assembly.  core.NewContext seeds the defaults (site
// title, charset and viewport metas, favicon), handlers override the title
// for their page ("Groups", "New Student"), and the shared base layout
// emits each slice in order.  Identical tags pushed twice — a component and
// the layout both asking for the same stylesheet, say — are deduplicated.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder collects the tags for one page render.  A request owns exactly
// one Builder, so the mutex only matters when a handler fans work out to
// goroutines that also push tags.
type Builder struct {
	mu sync.Mutex

	title string

	metas   []string
	links   []string
	scripts []string
	jsonLD  []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins, so a handler
// beats the site-wide default.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns the fully formed <title> tag, or "" when unset.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Meta, Link, and Script queue one pre-built tag each; duplicates are
// dropped.  JSONLD queues a raw JSON-LD document for the JSON helper.
func (b *Builder) Meta(tag string)   { b.push("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.push("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.push("script:"+tag, &b.scripts, tag) }
func (b *Builder) JSONLD(js string)  { b.push("jsonld:"+dedupKey(js), &b.jsonLD, js) }

func (b *Builder) push(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// dedupKey shortens long JSON-LD documents to a stable prefix key.
func dedupKey(s string) string {
	if len(s) > 32 {
		return s[:32]
	}
	return s
}

// Emission helpers called from the base layout.

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// JSON wraps each queued JSON-LD document in its own script tag.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
