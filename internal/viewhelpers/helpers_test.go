package viewhelpers

import (
	"testing"
	"time"
)

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"jane de la cruz": "Jane De La Cruz",
		"ali":             "Ali",
		"":                "",
		"a  b":            "A  B",
	}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinedDate(t *testing.T) {
	if got := JoinedDate("2024-01-15"); got != "2024/01/15" {
		t.Errorf("got %q", got)
	}
	if got := JoinedDate("not-a-date"); got != "not-a-date" {
		t.Errorf("unparseable input should pass through, got %q", got)
	}
}

func TestAge(t *testing.T) {
	dob := time.Now().AddDate(-10, 0, -1) // birthday already passed
	if got := Age(dob.Format("2006-01-02")); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
	pending := time.Now().AddDate(-10, 0, 1) // birthday tomorrow
	if got := Age(pending.Format("2006-01-02")); got != 9 {
		t.Errorf("got %d, want 9", got)
	}
	if got := Age("bogus"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
