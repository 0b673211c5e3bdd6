// internal/validate/registry.go
//
// Maktab – Validation subsystem: canonical per-field chains.
//
// Context
//   Sign-in and sign-up forms share one set of field chains.  The Registry
//   binds the remote-lookup source once at construction and hands out the
//   composed chains; the form builders and the server-side re-validation pass
//   both pull from here, so a field is always judged by the same rules no
//   matter which pass runs them.
//
//------------------------------------------------------------------------------

package validate

import "context"

// Policy constants shared by the chains below.
const (
	MinAgeYears = 8 // youngest admissible student
	MaxImageMB  = 5
	MinNameLen  = 2
	MinLoginLen = 3
)

// ImageMIMETypes is the allow-list for profile images.
var ImageMIMETypes = []string{"image/png", "image/jpeg", "image/webp"}

// RoleOptions are the admissible values of the admin sign-up role selector.
var RoleOptions = []string{"admin", "teacher"}

// Registry hands out the canonical chain for each known field.
type Registry struct {
	lookups Lookups
}

// NewRegistry binds the remote-lookup source.
func NewRegistry(l Lookups) *Registry { return &Registry{lookups: l} }

func (r *Registry) FullName() Rule {
	return Chain(Required("Full name"), MinLength(MinNameLen, "Full name"), FullName())
}

func (r *Registry) Username() Rule {
	return Chain(Required("Username"), MinLength(MinLoginLen, "Username"), Username(r.lookups))
}

func (r *Registry) Email() Rule {
	return Chain(Required("Email"), Email())
}

func (r *Registry) DateOfBirth() Rule {
	return Chain(Required("Date of birth"), NotFuture(), MinAge(MinAgeYears))
}

func (r *Registry) JoinedOn() Rule {
	return Chain(Required("Joined On"), NotFuture())
}

func (r *Registry) Group() Rule {
	return Chain(Required("Group"), GroupMember(r.lookups))
}

func (r *Registry) Role() Rule {
	return Chain(Required("Role"), OneOf(RoleOptions))
}

func (r *Registry) ProfileImage() Rule {
	return Chain(FileSize(MaxImageMB), FileType(ImageMIMETypes))
}

// ValidateMap runs schema against data and collects every failure.  Keys
// absent from data are validated as Absent so Required still fires.  It is
// the whole-map counterpart of a single chain call, used by the server-side
// re-validation step.
func ValidateMap(ctx context.Context, data map[string]Value, schema map[string]Rule) (bool, map[string]string) {
	errs := make(map[string]string)
	for name, rule := range schema {
		if rule == nil {
			continue
		}
		if msg := rule(ctx, data[name]); msg != "" {
			errs[name] = msg
		}
	}
	return len(errs) == 0, errs
}
