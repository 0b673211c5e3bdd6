// internal/routing/slug.go
//
// URL helpers for group pages.
//
// Group names are free text entered at sign-up time ("Alif Group", "Ba
// Group"), so directory links slug them down to lower-kebab ASCII:
//
//	MakeSlug("Alif Group")  → "alif-group"
//	BuildPath("group", "alif-group") → "/group/alif-group"
//
// The detail handler accepts both the slug and the exact stored name, so a
// hand-typed /group/Alif%20Group still resolves.
//
// Slug rules
//  1. Lower-case everything.
//  2. Any run of characters outside [a-z0-9] becomes one "-".  That strips
//     spaces, punctuation, and non-ASCII; group names are English-only.
//  3. Trim leading and trailing "-".
//  4. An empty result falls back to "group" so BuildPath never emits a
//     trailing slash.
//
// Slugs are capped at 100 runes, comfortably above any real group name.

package routing

import (
	"strings"
)

// MakeSlug converts a group name to its lower-kebab ASCII slug.
func MakeSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastWasDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "group"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}

// BuildPath joins parent and slug with exactly one leading slash and no
// duplicate separators.
func BuildPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}
