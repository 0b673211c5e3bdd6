// internal/backend/backend.go
//
// Maktab – Backend collaborator: contracts and shared types.
//
// Context
//   Maktab delegates authentication, relational storage, and object storage
//   to a hosted backend service.  This package is the only place that knows
//   how to talk to it.  Each concern sits behind a narrow interface so the
//   core (validation, session gate, submission flow) can be exercised against
//   in-memory fakes, and so the hosted service could be swapped without
//   touching callers.
//
//   - AuthAPI    – passwordless (magic-link) authentication and sessions.
//   - DataAPI    – the relational queries the app consumes.
//   - StorageAPI – profile-image object storage.
//
//------------------------------------------------------------------------------

package backend

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by DataAPI lookups that match nothing.
var ErrNotFound = errors.New("backend: not found")

//
// Authentication
//

// OTPRequest asks the auth service to email a one-time sign-in link.
type OTPRequest struct {
	Email      string
	RedirectTo string         // post-redemption landing URL
	CreateUser bool           // false: sign-in only; true: provision on redeem
	Metadata   map[string]any // profile payload stored on the new user
}

// AuthUser is the identity record the auth service returns for a live token.
type AuthUser struct {
	ID       string
	Email    string
	Role     string // student, teacher, or admin
	Metadata map[string]any
}

// EventType enumerates the auth-state changes pushed to subscribers.
type EventType int

const (
	EventSignedIn EventType = iota
	EventSignedOut
	EventTokenRefreshed
)

// AuthEvent is delivered to every subscriber when the auth state changes.
type AuthEvent struct {
	Type  EventType
	Token string    // access token the event concerns
	User  *AuthUser // nil for sign-out
}

// AuthAPI is the authentication surface consumed from the hosted service.
type AuthAPI interface {
	// RequestOTP asks the service to send a magic link.  The service itself
	// emails the token; Maktab never sees it.
	RequestOTP(ctx context.Context, req OTPRequest) error

	// UserForToken resolves an access token to its user, or ErrNotFound.
	UserForToken(ctx context.Context, token string) (*AuthUser, error)

	// SignOut revokes the token and notifies subscribers.
	SignOut(ctx context.Context, token string) error

	// Subscribe registers fn for auth events.  The returned func cancels the
	// subscription.  fn must not block.
	Subscribe(fn func(AuthEvent)) (cancel func())
}

//
// Relational data
//

// Group is one row of the groups table.
type Group struct {
	ID        string    `db:"id"`
	Name      string    `db:"group_name"`
	Closed    bool      `db:"closed"`
	CreatedAt time.Time `db:"created_at"`
}

// StudentProfile is the roster projection of a student.
type StudentProfile struct {
	FullName    string `db:"fullname"`
	Group       string `db:"group_name"`
	DateOfBirth string `db:"date_of_birth"` // YYYY-MM-DD
}

// Lesson is the content record a group enrolls in.
type Lesson struct {
	Name     string `db:"lesson_name"`
	Textbook string `db:"lesson_book"`
}

// DataAPI lists the relational queries the application consumes.  Writes go
// through the auth service's provisioning hook, never through this interface.
type DataAPI interface {
	// Groups returns every group, most recently created first.
	Groups(ctx context.Context) ([]Group, error)

	// GroupByName resolves a single group, or ErrNotFound.
	GroupByName(ctx context.Context, name string) (*Group, error)

	// GroupMembers returns the full names of a group's students.
	GroupMembers(ctx context.Context, groupName string) ([]string, error)

	// GroupLessons returns the lessons a group is enrolled in.
	GroupLessons(ctx context.Context, groupID string) ([]Lesson, error)

	// Students returns every student profile.
	Students(ctx context.Context) ([]StudentProfile, error)

	// UsernamesByRole returns the username pool for one identity class:
	// "student", "teacher", or "admin".
	UsernamesByRole(ctx context.Context, role string) ([]string, error)

	// EmailExists reports whether any student or teacher profile already
	// claims the (lower-cased) email.
	EmailExists(ctx context.Context, email string) (bool, error)
}

//
// Object storage
//

// StorageAPI uploads profile images and resolves their public URLs.
type StorageAPI interface {
	// Upload stores content under name and returns its public URL.
	Upload(ctx context.Context, name, mime string, content io.Reader) (string, error)
}
