// internal/head/builder_test.go

package head

import (
	"strings"
	"testing"
)

func TestTitleLastCallerWins(t *testing.T) {
	b := New()
	b.SetTitle("Maktab")
	b.SetTitle("Groups")

	if got := string(b.Title()); got != "<title>Groups</title>" {
		t.Errorf("title = %q", got)
	}
}

func TestDuplicateTagsCollapse(t *testing.T) {
	b := New()
	b.Link(`<link rel="icon" href="/favicon.ico">`)
	b.Link(`<link rel="icon" href="/favicon.ico">`)

	if got := string(b.Links()); strings.Count(got, "favicon") != 1 {
		t.Errorf("links = %q", got)
	}
}

func TestTitleIsEscaped(t *testing.T) {
	b := New()
	b.SetTitle(`<script>`)

	if got := string(b.Title()); strings.Contains(got, "<script>") {
		t.Errorf("title not escaped: %q", got)
	}
}
