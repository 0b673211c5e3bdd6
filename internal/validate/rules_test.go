// internal/validate/rules_test.go
//
// Unit-tests for field rules and chain composition.
//
// Run: go test ./internal/validate -v

package validate

import (
	"context"
	"strings"
	"testing"
	"time"
)

// fixedLookups feeds the remote-lookup rules from fixed slices.
type fixedLookups struct {
	groups, students, teachers, admins []string
	err                                error
}

func (f *fixedLookups) GroupNames(context.Context) ([]string, error) { return f.groups, f.err }
func (f *fixedLookups) StudentUsernames(context.Context) ([]string, error) {
	return f.students, f.err
}
func (f *fixedLookups) TeacherUsernames(context.Context) ([]string, error) {
	return f.teachers, f.err
}
func (f *fixedLookups) AdminUsernames(context.Context) ([]string, error) { return f.admins, f.err }

func TestRequired(t *testing.T) {
	ctx := context.Background()
	rule := Required("Email")

	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"empty", Text(""), "Email is required"},
		{"whitespace", Text("   "), "Email is required"},
		{"absent", Absent(), "Email is required"},
		{"filled", Text("a@b.co"), ""},
		{"file passes", FileOf(File{Name: "x.png", Size: 1, MIME: "image/png"}), ""},
	}
	for _, tc := range cases {
		if got := rule(ctx, tc.v); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestChainFirstFailureWins(t *testing.T) {
	ctx := context.Background()
	rule := Chain(Required("Full name"), MinLength(2, "Full name"), FullName())

	// Blank trips Required before MinLength ever runs.
	if got := rule(ctx, Text("")); got != "Full name is required" {
		t.Fatalf("blank: got %q", got)
	}
	// One character trips MinLength before the word-count rule.
	if got := rule(ctx, Text("a")); got != "Full name must be at least 2 characters" {
		t.Fatalf("short: got %q", got)
	}
	// One word passes length but fails the two-word rule.
	if got := rule(ctx, Text("mohammad")); got != "Full name must be at least 2 words" {
		t.Fatalf("one word: got %q", got)
	}
	if got := rule(ctx, Text("Mohammad Sadik")); got != "" {
		t.Fatalf("valid: got %q", got)
	}
}

func TestFullNameCharacterClass(t *testing.T) {
	ctx := context.Background()
	if got := FullName()(ctx, Text("Ali B3n")); got != "Full name can only contain letters and spaces" {
		t.Fatalf("got %q", got)
	}
}

func TestEmailShape(t *testing.T) {
	ctx := context.Background()
	rule := Email()

	for _, bad := range []string{"not-an-email", "a@b", "a b@c.d", "@x.y"} {
		if rule(ctx, Text(bad)) == "" {
			t.Errorf("%q: expected failure", bad)
		}
	}
	for _, good := range []string{"user@example.com", "a.b@c.co.uk"} {
		if got := rule(ctx, Text(good)); got != "" {
			t.Errorf("%q: got %q", good, got)
		}
	}
}

func TestUsernameCharsetBeatsUniqueness(t *testing.T) {
	ctx := context.Background()
	pools := &fixedLookups{students: []string{"sadik-123"}}
	rule := Username(pools)

	// Character-class error wins even when the same string sits in a pool.
	if got := rule(ctx, Text("sadik-123")); got != "Username can only contain letters, numbers, and underscores" {
		t.Fatalf("got %q", got)
	}
}

func TestUsernameTakenAcrossPools(t *testing.T) {
	ctx := context.Background()
	pools := &fixedLookups{
		students: []string{"alpha"},
		teachers: []string{"bravo"},
		admins:   []string{"charlie"},
	}
	rule := Username(pools)

	for _, taken := range []string{"Alpha", "BRAVO", "charlie"} {
		if got := rule(ctx, Text(taken)); got != "Username is already taken" {
			t.Errorf("%q: got %q", taken, got)
		}
	}
	if got := rule(ctx, Text("delta")); got != "" {
		t.Fatalf("free username: got %q", got)
	}
}

func TestUsernameLookupFailureDegrades(t *testing.T) {
	ctx := context.Background()
	pools := &fixedLookups{err: context.DeadlineExceeded}
	got := Username(pools)(ctx, Text("delta"))
	if !strings.Contains(got, "Unable to verify username") {
		t.Fatalf("got %q", got)
	}
}

func TestMinAgeBoundary(t *testing.T) {
	ctx := context.Background()
	rule := MinAge(8)
	today := time.Now()

	exact := today.AddDate(-8, 0, 0).Format("2006-01-02")
	if got := rule(ctx, Text(exact)); got != "" {
		t.Fatalf("exact anniversary should pass, got %q", got)
	}

	short := today.AddDate(-8, 0, 1).Format("2006-01-02")
	if got := rule(ctx, Text(short)); got != "You must be at least 8 years old" {
		t.Fatalf("one day short should fail, got %q", got)
	}
}

func TestNotFuture(t *testing.T) {
	ctx := context.Background()
	rule := NotFuture()

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if got := rule(ctx, Text(tomorrow)); got != "Date cannot be in the future" {
		t.Fatalf("got %q", got)
	}
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	if got := rule(ctx, Text(yesterday)); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestGroupMemberCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	pools := &fixedLookups{groups: []string{"Alif", "Ba"}}
	rule := GroupMember(pools)

	if got := rule(ctx, Text("alif")); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := rule(ctx, Text("Jim")); got != "Jim is not an option" {
		t.Fatalf("got %q", got)
	}
}

func TestFileRules(t *testing.T) {
	ctx := context.Background()

	big := FileOf(File{Name: "big.png", Size: 6 << 20, MIME: "image/png"})
	if got := FileSize(5)(ctx, big); got != "File size must be less than 5MB" {
		t.Fatalf("size: got %q", got)
	}

	gif := FileOf(File{Name: "x.gif", Size: 10, MIME: "image/gif"})
	want := "Only PNG, JPEG, WEBP files are allowed"
	if got := FileType(ImageMIMETypes)(ctx, gif); got != want {
		t.Fatalf("type: got %q", got)
	}

	// A zero-byte file means the input was never touched; it must pass.
	empty := FileOf(File{Name: "", Size: 0, MIME: ""})
	if got := FileType(ImageMIMETypes)(ctx, empty); got != "" {
		t.Fatalf("empty file: got %q", got)
	}

	if got := FileRequired("Profile Image")(ctx, Text("x")); got != "Profile Image is required" {
		t.Fatalf("file required: got %q", got)
	}
}

func TestValidateMapCollectsEveryFailure(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&fixedLookups{})

	data := map[string]Value{
		"fullname": Text("a"),
		"username": Text("ok"),
		"email":    Text("not-an-email"),
	}
	schema := map[string]Rule{
		"fullname": reg.FullName(),
		"username": reg.Username(),
		"email":    reg.Email(),
	}

	ok, errs := ValidateMap(ctx, data, schema)
	if ok {
		t.Fatal("expected failure")
	}
	if len(errs) != 3 {
		t.Fatalf("want 3 errors, got %d: %v", len(errs), errs)
	}
	if errs["fullname"] != "Full name must be at least 2 characters" {
		t.Errorf("fullname: %q", errs["fullname"])
	}
	if errs["username"] != "Username must be at least 3 characters" {
		t.Errorf("username: %q", errs["username"])
	}
	if errs["email"] != "Please enter a valid email address" {
		t.Errorf("email: %q", errs["email"])
	}
}
