// internal/form/field.go
//
// Maktab – Forms subsystem: field model.
//
// Context
//   Each form is described by an ordered list of Field values built in code
//   (see builders.go).  A Field is a tagged variant over its input kind:
//   text-like kinds carry placeholder and default text, the select kind
//   carries its option list, and the file kind carries neither.  Constructors
//   enforce that split so a field never holds attributes its kind cannot
//   use, and consumers dispatch on Kind exhaustively.
//
//   A form's Field slice is immutable once built for a render; the state
//   controller copies what it needs and never writes back.
//
//------------------------------------------------------------------------------

package form

import (
	"github.com/maktab-dev/maktab/internal/validate"
)

// Kind discriminates the field variant.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindDate
	KindSelect
	KindFile
)

// IsTextLike reports whether the kind submits a plain string.
func (k Kind) IsTextLike() bool {
	switch k {
	case KindText, KindEmail, KindDate, KindSelect:
		return true
	case KindFile:
		return false
	}
	return false
}

// InputType returns the HTML input type for the kind.  Select renders as a
// datalist-backed text input, matching the hosted UI.
func (k Kind) InputType() string {
	switch k {
	case KindEmail:
		return "email"
	case KindDate:
		return "date"
	case KindFile:
		return "file"
	default:
		return "text"
	}
}

// Field describes one input control.  Use the constructors below; kind
// invariants are not re-checked later.
type Field struct {
	Name        string // submission key, unique within the form
	Label       string
	Kind        Kind
	Placeholder string        // text-like kinds only
	Options     []string      // KindSelect only
	AutoFocus   bool          // at most one per form
	Default     string        // text-like kinds only
	Rule        validate.Rule // validator chain, first failure wins
}

// TextOpt tweaks a text-like field.
type TextOpt func(*Field)

// WithPlaceholder sets placeholder text.
func WithPlaceholder(p string) TextOpt { return func(f *Field) { f.Placeholder = p } }

// WithDefault sets the declared default value.
func WithDefault(d string) TextOpt { return func(f *Field) { f.Default = d } }

// WithAutoFocus marks the field as the form's initial focus target.
func WithAutoFocus() TextOpt { return func(f *Field) { f.AutoFocus = true } }

// TextField constructs a text-like field of the given kind.
func TextField(kind Kind, name, label string, rule validate.Rule, opts ...TextOpt) Field {
	f := Field{Name: name, Label: label, Kind: kind, Rule: rule}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// SelectField constructs a single-select field over options.
func SelectField(name, label string, options []string, rule validate.Rule, opts ...TextOpt) Field {
	f := Field{Name: name, Label: label, Kind: KindSelect, Options: options, Rule: rule}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// FileField constructs a file-upload field.
func FileField(name, label string, rule validate.Rule) Field {
	return Field{Name: name, Label: label, Kind: KindFile, Rule: rule}
}

// fieldByName returns the field and true when name is part of the set.
func fieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
