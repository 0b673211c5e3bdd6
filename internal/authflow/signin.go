// internal/authflow/signin.go
//
// Maktab – Auth flows: passwordless sign-in.
//
// Context
//   Sign-in is a single email field.  The flow revalidates the submitted
//   value on the server side regardless of what the page already checked,
//   asks the auth service to email a magic link without provisioning a new
//   user, and on success points the visitor at the check-email page.  The
//   service, not Maktab, generates and delivers the link.
//
//------------------------------------------------------------------------------

package authflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/metrics"
)

// Outcome is the result of one submission, as the page renders it.
type Outcome struct {
	OK       bool
	Message  string // user-facing error when !OK
	Redirect string // navigation target when set
	Flash    string // success toast when set
}

// SignInFlow owns the sign-in submission.
type SignInFlow struct {
	auth    backend.AuthAPI
	appURL  string
	Machine Machine
}

// NewSignInFlow returns a flow requesting links that land back on appURL.
func NewSignInFlow(auth backend.AuthAPI, appURL string) *SignInFlow {
	return &SignInFlow{auth: auth, appURL: appURL}
}

// Submit runs one sign-in attempt against the controller's current values.
func (f *SignInFlow) Submit(ctx context.Context, ctrl *form.Controller) Outcome {
	if err := f.Machine.Begin(); err != nil {
		return Outcome{Message: MsgCorrectErrors}
	}
	defer f.Machine.Finish()

	ctrl.ClearErrors()
	if !ctrl.ValidateAll(ctx) {
		metrics.ValidationFailuresTotal.WithLabelValues(form.SignInID).Inc()
		metrics.MagicLinkRequestsTotal.WithLabelValues("signin", "invalid").Inc()
		if msg := ctrl.Errors()["email"]; msg != "" {
			return Outcome{Message: msg}
		}
		return Outcome{Message: MsgCorrectErrors}
	}

	email, _ := ctrl.Values()["email"].Text()
	err := f.auth.RequestOTP(ctx, backend.OTPRequest{
		Email:      email,
		RedirectTo: f.appURL + "/",
		CreateUser: false,
	})
	if err != nil {
		zap.S().Warnw("sign-in magic link failed", "err", err)
		metrics.MagicLinkRequestsTotal.WithLabelValues("signin", "error").Inc()
		msg := FriendlyMessage(err)
		ctrl.SetServerError(msg)
		return Outcome{Message: msg}
	}

	metrics.MagicLinkRequestsTotal.WithLabelValues("signin", "ok").Inc()
	ctrl.Reset()
	return Outcome{OK: true, Redirect: MsgCheckEmailTarget}
}
