// internal/ua/ua_test.go

package ua

import (
	"testing"

	surfer "github.com/avct/uasurfer"
)

func TestDottedTrimsTrailingZeros(t *testing.T) {
	cases := []struct {
		v    surfer.Version
		want string
	}{
		{surfer.Version{Major: 17}, "17"},
		{surfer.Version{Major: 17, Minor: 3}, "17.3"},
		{surfer.Version{Major: 17, Minor: 3, Patch: 1}, "17.3.1"},
		{surfer.Version{}, ""},
	}
	for _, c := range cases {
		if got := dotted(c.v); got != c.want {
			t.Errorf("dotted(%+v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestParseClassifiesDesktopBrowser(t *testing.T) {
	const chrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

	info := Parse(chrome)
	if info.Device != "Desktop" {
		t.Errorf("device = %q", info.Device)
	}
	if info.IsBot {
		t.Error("desktop browser flagged as bot")
	}
	if info.Raw != chrome {
		t.Errorf("raw not preserved")
	}
}
