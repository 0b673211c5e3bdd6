// internal/viewhelpers/helpers.go
//
// Display-formatting template helpers.  Injected by the view engine's
// func map, so every template can call:
//
//	{{ capitalize .Session.FullName }}
//	{{ joinedDate .Session.JoinedOn }}
//	{{ age .DateOfBirth }}
package viewhelpers

import (
	"html/template"
	"strings"
	"time"
	"unicode"
)

// FuncMap returns the formatting helpers.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"capitalize": Capitalize,
		"joinedDate": JoinedDate,
		"age":        Age,
	}
}

// Capitalize upper-cases the first letter of every space-separated word.
// Values arrive lowercased from storage, so "jane de la cruz" renders as
// "Jane De La Cruz".
func Capitalize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// JoinedDate reformats an ISO date ("2024-01-15") for display
// ("2024/01/15").  Unparseable input is returned unchanged.
func JoinedDate(iso string) string {
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return iso
	}
	return strings.ReplaceAll(iso, "-", "/")
}

// Age returns completed years since the ISO birth date, or 0 when the
// date does not parse.  The month/day comparison avoids the off-by-one a
// plain year subtraction gives before the birthday has passed.
func Age(iso string) int {
	dob, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return 0
	}
	now := time.Now()
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
