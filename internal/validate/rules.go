// internal/validate/rules.go
//
// Maktab – Validation subsystem: field rules and rule chains.
//
// Context
//   Every form field owns an ordered chain of rules.  A Rule inspects one
//   Value and returns a user-facing message, or "" when the value passes.
//   Chain composes rules with first-failure-wins semantics: for value v and
//   chain [r1..rn] the result is the first non-empty ri(v), else "".  Chain
//   order is fixed by the form configuration and is significant (for example
//   the username character-class rule must fire before the uniqueness rule).
//
//   Rules that consult the backend (username uniqueness, group membership)
//   receive their data through the Lookups interface so they stay pure with
//   respect to transport, and so tests can feed them fixed pools.
//
// Notes
//   - Rules never return an error.  A failed remote lookup degrades to a
//     "cannot verify" message on that field; nothing propagates past the
//     owning validation pass.
//   - Text rules ignore file values and vice versa, mirroring the split
//     between Required (text presence) and FileRequired (file presence).
//
//------------------------------------------------------------------------------

package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Rule validates a single Value.  The returned string is a human-readable
// message; "" means the value passed.
type Rule func(ctx context.Context, v Value) string

// Chain composes rules left to right, returning the first failure.
func Chain(rules ...Rule) Rule {
	return func(ctx context.Context, v Value) string {
		for _, r := range rules {
			if msg := r(ctx, v); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Lookups supplies the remote pools consumed by the username and group rules.
// Implementations are expected to cache; see internal/lookup.
type Lookups interface {
	GroupNames(ctx context.Context) ([]string, error)
	StudentUsernames(ctx context.Context) ([]string, error)
	TeacherUsernames(ctx context.Context) ([]string, error)
	AdminUsernames(ctx context.Context) ([]string, error)
}

var (
	fullNameRe = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const dateLayout = "2006-01-02"

// Required rejects blank text and absent values.  File values pass
// unconditionally; requiring a file is FileRequired's job.
func Required(fieldName string) Rule {
	return func(_ context.Context, v Value) string {
		if _, ok := v.File(); ok {
			return ""
		}
		if s, ok := v.Text(); ok && strings.TrimSpace(s) != "" {
			return ""
		}
		return fieldName + " is required"
	}
}

// MinLength enforces a minimum character count on non-empty text.
func MinLength(min int, fieldName string) Rule {
	return func(_ context.Context, v Value) string {
		if s, ok := v.Text(); ok && s != "" && len(s) < min {
			return fmt.Sprintf("%s must be at least %d characters", fieldName, min)
		}
		return ""
	}
}

// FullName allows letters and spaces and demands at least two words.
func FullName() Rule {
	return func(_ context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		if !fullNameRe.MatchString(s) {
			return "Full name can only contain letters and spaces"
		}
		if len(strings.Fields(s)) < 2 {
			return "Full name must be at least 2 words"
		}
		return ""
	}
}

// Email performs an RFC-light shape check: something@something.something with
// no whitespace.  Deliverability is the magic-link send's problem.
func Email() Rule {
	return func(_ context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		if !emailRe.MatchString(s) {
			return "Please enter a valid email address"
		}
		return ""
	}
}

// Username checks the character class first, then case-insensitive uniqueness
// across the student, teacher, and admin pools.  The character-class message
// wins regardless of uniqueness, and also spares the remote lookups.
func Username(pools Lookups) Rule {
	return func(ctx context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		if !usernameRe.MatchString(s) {
			return "Username can only contain letters, numbers, and underscores"
		}
		for _, fetch := range []func(context.Context) ([]string, error){
			pools.StudentUsernames, pools.TeacherUsernames, pools.AdminUsernames,
		} {
			names, err := fetch(ctx)
			if err != nil {
				return "Unable to verify username right now. Please try again."
			}
			if containsFold(names, s) {
				return "Username is already taken"
			}
		}
		return ""
	}
}

// NotFuture rejects dates after today.  Unparseable text passes; the date
// input kind and Required constrain the format upstream.
func NotFuture() Rule {
	return func(_ context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return ""
		}
		if d.After(time.Now()) {
			return "Date cannot be in the future"
		}
		return ""
	}
}

// MinAge demands a birthdate at least minAge years ago.  A birthdate exactly
// minAge years before today (same month and day) passes; one day short fails.
func MinAge(minAge int) Rule {
	return func(_ context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		birth, err := time.Parse(dateLayout, s)
		if err != nil {
			return ""
		}
		if yearsSince(birth, time.Now()) < minAge {
			return fmt.Sprintf("You must be at least %d years old", minAge)
		}
		return ""
	}
}

// OneOf accepts only case-insensitive members of the fixed option list.
func OneOf(options []string) Rule {
	return func(_ context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		if !containsFold(options, s) {
			return s + " is not an option"
		}
		return ""
	}
}

// GroupMember is OneOf over the live-fetched group-name pool.
func GroupMember(pools Lookups) Rule {
	return func(ctx context.Context, v Value) string {
		s, ok := v.Text()
		if !ok {
			return ""
		}
		names, err := pools.GroupNames(ctx)
		if err != nil {
			return "Unable to verify group right now. Please try again."
		}
		if !containsFold(names, s) {
			return s + " is not an option"
		}
		return ""
	}
}

// FileSize caps uploads at maxMB mebibytes.  Text values pass.
func FileSize(maxMB int) Rule {
	return func(_ context.Context, v Value) string {
		f, ok := v.File()
		if !ok {
			return ""
		}
		if f.Size > int64(maxMB)<<20 {
			return fmt.Sprintf("File size must be less than %dMB", maxMB)
		}
		return ""
	}
}

// FileType allows only the listed MIME types.  Empty files pass so an
// untouched optional file input never errors.
func FileType(allowed []string) Rule {
	return func(_ context.Context, v Value) string {
		f, ok := v.File()
		if !ok || f.Size == 0 {
			return ""
		}
		for _, m := range allowed {
			if f.MIME == m {
				return ""
			}
		}
		names := make([]string, len(allowed))
		for i, m := range allowed {
			names[i] = strings.ToUpper(m[strings.IndexByte(m, '/')+1:])
		}
		return "Only " + strings.Join(names, ", ") + " files are allowed"
	}
}

// FileRequired rejects anything that is not a file value.
func FileRequired(fieldName string) Rule {
	return func(_ context.Context, v Value) string {
		if _, ok := v.File(); !ok {
			return fieldName + " is required"
		}
		return ""
	}
}

// containsFold reports case-insensitive membership.
func containsFold(pool []string, s string) bool {
	for _, p := range pool {
		if strings.EqualFold(p, s) {
			return true
		}
	}
	return false
}

// yearsSince returns whole years elapsed from birth to now, corrected for
// whether the anniversary has passed this year.
func yearsSince(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
