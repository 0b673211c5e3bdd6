// internal/validate/value.go
//
// Maktab – Validation subsystem: input value variant.
//
// Context
//   Form inputs carry either text (text, email, date, select) or an uploaded
//   file.  Instead of a loosely typed any that every rule must type-switch
//   and coerce, Value is a small tagged variant: exactly one of the three
//   kinds (text, file, absent) is set, and rules dispatch on the tag.
//
//------------------------------------------------------------------------------

package validate

// Kind discriminates the Value variant.
type Kind int

const (
	KindAbsent Kind = iota // no value submitted
	KindText               // text-like inputs: text, email, date, select
	KindFile               // uploaded file
)

// File describes an uploaded file as far as validation cares: its original
// name, byte size, and declared MIME type.  The content itself stays in the
// upload buffer; rules never read it.
type File struct {
	Name string
	Size int64
	MIME string
}

// Value is one submitted form value.  Construct via Text, FileOf, or Absent;
// the zero value is Absent.
type Value struct {
	kind Kind
	text string
	file File
}

// Text wraps a text-like input value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// FileOf wraps an uploaded file.
func FileOf(f File) Value { return Value{kind: KindFile, file: f} }

// Absent is the value of a field the user never filled.
func Absent() Value { return Value{kind: KindAbsent} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text payload.  ok is false for file or absent values.
func (v Value) Text() (s string, ok bool) {
	return v.text, v.kind == KindText
}

// File returns the file payload.  ok is false for text or absent values.
func (v Value) File() (f File, ok bool) {
	return v.file, v.kind == KindFile
}

// IsAbsent reports whether no value was submitted.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }
