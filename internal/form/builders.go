// internal/form/builders.go
//
// Maktab – Forms subsystem: form configurations.
//
// Context
//   Three forms exist: sign-in, student sign-up, and admin sign-up.  Each
//   builder returns a fresh ordered Field slice; the sign-up builders embed
//   the live group-name pool as select options, so they take a context and
//   may fail when the backend is unreachable.  Builders are pure given their
//   remote inputs and never mutate shared state.
//
//   Field order matters twice: it is render order, and it decides which
//   field receives focus after a failed whole-form validation.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"time"

	"github.com/maktab-dev/maktab/internal/validate"
)

// Form IDs, also used as metric labels and draft-slot qualifiers.
const (
	SignInID      = "auth/signin"
	StudentSignUp = "signup/student"
	AdminSignUp   = "signup/admin"
)

// SignInFields returns the single-field sign-in configuration.
func SignInFields(reg *validate.Registry) []Field {
	return []Field{
		TextField(KindEmail, "email", "Email", reg.Email(),
			WithPlaceholder("user@example.com"), WithAutoFocus()),
	}
}

// StudentSignUpFields returns the student sign-up configuration.  Group
// options are fetched live through the registry's lookup source.
func StudentSignUpFields(ctx context.Context, reg *validate.Registry, pools validate.Lookups) ([]Field, error) {
	groups, err := pools.GroupNames(ctx)
	if err != nil {
		return nil, err
	}
	return []Field{
		TextField(KindText, "fullname", "Full Name", reg.FullName(),
			WithPlaceholder("e.g Mohammad Sadik"), WithAutoFocus()),
		TextField(KindText, "username", "Username", reg.Username(),
			WithPlaceholder("e.g sadik123")),
		TextField(KindDate, "dateOfBirth", "Date of birth", reg.DateOfBirth()),
		TextField(KindEmail, "email", "Email", reg.Email(),
			WithPlaceholder("user@example.com")),
		TextField(KindDate, "joinedOn", "Joined On", reg.JoinedOn(),
			WithDefault(today())),
		SelectField("group", "Group", groups, reg.Group(),
			WithPlaceholder("Select Group")),
		FileField("profileImage", "Profile Image", reg.ProfileImage()),
	}, nil
}

// AdminSignUpFields returns the admin/teacher sign-up configuration: no
// date of birth, plus a role selector.
func AdminSignUpFields(ctx context.Context, reg *validate.Registry, pools validate.Lookups) ([]Field, error) {
	groups, err := pools.GroupNames(ctx)
	if err != nil {
		return nil, err
	}
	return []Field{
		TextField(KindText, "fullname", "Full Name", reg.FullName(),
			WithPlaceholder("e.g Mohammad Sadik"), WithAutoFocus()),
		TextField(KindText, "username", "Username", reg.Username(),
			WithPlaceholder("e.g sadik123")),
		TextField(KindEmail, "email", "Email", reg.Email(),
			WithPlaceholder("user@example.com")),
		SelectField("role", "Role", validate.RoleOptions, reg.Role()),
		TextField(KindDate, "joinedOn", "Joined On", reg.JoinedOn(),
			WithDefault(today())),
		SelectField("group", "Group", groups, reg.Group(),
			WithPlaceholder("Select Group")),
		FileField("profileImage", "Profile Image", reg.ProfileImage()),
	}, nil
}

func today() string { return time.Now().Format("2006-01-02") }
