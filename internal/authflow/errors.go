// internal/authflow/errors.go
//
// Maktab – Auth flows: user-facing error translation.
//
// Context
//   The auth service reports failures with terse machine strings.  Pages
//   never show those; every service error funnels through FriendlyMessage,
//   which maps the known strings and falls back to a generic apology.  The
//   mapping is on the exact message, not a substring, so new service errors
//   surface as the fallback until added here.
//
//------------------------------------------------------------------------------

package authflow

import "github.com/maktab-dev/maktab/internal/backend"

// Messages shown by the flows themselves.
const (
	MsgCorrectErrors    = "Please correct the errors and try again"
	MsgEmailTaken       = "An account with this email already exists."
	MsgUploadFailed     = "Failed to upload profile image"
	MsgUnexpected       = "An unexpected error occurred. Please try again later."
	MsgFallback         = "Something went wrong. Please try again."
	MsgUserCreated      = "User created successfully!"
	MsgCheckEmailTarget = "/check-email"
)

var friendly = map[string]string{
	"Signups not allowed for otp":           "We couldn't find an account with that email address.",
	"Invalid credentials":                   "Please check your email address and try again.",
	"Rate limit exceeded":                   "Too many attempts. Please wait a moment and try again.",
	"Signups not allowed for this instance": "Sign-ups are currently disabled. Please contact support or try again later.",
}

// FriendlyMessage translates an auth-service failure for display.
func FriendlyMessage(err error) string {
	if apiErr, ok := err.(*backend.APIError); ok {
		if msg, ok := friendly[apiErr.Message]; ok {
			return msg
		}
	}
	if msg, ok := friendly[err.Error()]; ok {
		return msg
	}
	return MsgFallback
}
