// internal/authflow/signup.go
//
// Maktab – Auth flows: new-user provisioning over a magic link.
//
// Context
//   Sign-up never writes profile rows directly.  It re-validates the whole
//   form on the server side, refuses emails that already own a profile,
//   uploads the optional profile image, then asks the auth service to send a
//   magic link with shouldCreateUser set and the profile payload attached as
//   user metadata.  The service's provisioning hook materializes the profile
//   when the link is redeemed, so an unredeemed sign-up leaves no rows
//   behind.
//
//   When server-side validation fails, the page shows one error: the first
//   failing field in fixed priority order (fullname, username, dateOfBirth,
//   email, joinedOn, group, profileImage), not a field-by-field list.
//
//   A successful sign-up invalidates the username lookup caches so the new
//   name is refused immediately on the next form.
//
//------------------------------------------------------------------------------

package authflow

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/form"
	"github.com/maktab-dev/maktab/internal/lookup"
	"github.com/maktab-dev/maktab/internal/metrics"
)

// serverErrorOrder fixes which field's message wins when several fail.
var serverErrorOrder = []string{
	"fullname", "username", "dateOfBirth", "email", "joinedOn", "group", "profileImage",
}

// SignUpFlow owns the student and admin sign-up submissions.
type SignUpFlow struct {
	auth    backend.AuthAPI
	data    backend.DataAPI
	storage backend.StorageAPI
	cache   *lookup.Cache
	appURL  string
	Machine Machine
}

// NewSignUpFlow wires the collaborators a sign-up touches.
func NewSignUpFlow(auth backend.AuthAPI, data backend.DataAPI, storage backend.StorageAPI, cache *lookup.Cache, appURL string) *SignUpFlow {
	return &SignUpFlow{auth: auth, data: data, storage: storage, cache: cache, appURL: appURL}
}

// Submit runs one sign-up attempt.  formID tags metrics; image carries the
// profile-image content when one was attached, nil otherwise.
func (f *SignUpFlow) Submit(ctx context.Context, formID string, ctrl *form.Controller, image io.Reader) Outcome {
	if err := f.Machine.Begin(); err != nil {
		return Outcome{Message: MsgCorrectErrors}
	}
	defer f.Machine.Finish()

	ctrl.ClearErrors()
	if !ctrl.ValidateAll(ctx) {
		metrics.ValidationFailuresTotal.WithLabelValues(formID).Inc()
		metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "invalid").Inc()
		return Outcome{Message: f.firstError(ctrl.Errors())}
	}

	values := ctrl.Values()
	text := func(name string) string {
		s, _ := values[name].Text()
		return s
	}
	email := strings.ToLower(text("email"))

	taken, err := f.data.EmailExists(ctx, email)
	if err != nil {
		zap.S().Warnw("email pre-check failed", "err", err)
		metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "error").Inc()
		return f.fail(ctrl, MsgUnexpected)
	}
	if taken {
		metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "invalid").Inc()
		return f.fail(ctrl, MsgEmailTaken)
	}

	var imageURL string
	if file, ok := values["profileImage"].File(); ok && file.Size > 0 && image != nil {
		name := backend.ImageObjectName("", file.MIME)
		imageURL, err = f.storage.Upload(ctx, name, file.MIME, image)
		if err != nil {
			zap.S().Warnw("profile image upload failed", "err", err)
			metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "error").Inc()
			return f.fail(ctrl, MsgUploadFailed)
		}
	}

	meta := map[string]any{
		"fullname": strings.ToLower(text("fullname")),
		"username": strings.ToLower(text("username")),
		"joinedOn": text("joinedOn"),
		"group":    strings.ToLower(text("group")),
	}
	if dob := text("dateOfBirth"); dob != "" {
		meta["dateOfBirth"] = dob
	}
	if role := text("role"); role != "" {
		meta["role"] = strings.ToLower(role)
	}
	if imageURL != "" {
		meta["profileImageUrl"] = imageURL
	}

	err = f.auth.RequestOTP(ctx, backend.OTPRequest{
		Email:      email,
		RedirectTo: f.appURL + "/",
		CreateUser: true,
		Metadata:   meta,
	})
	if err != nil {
		zap.S().Warnw("sign-up magic link failed", "err", err)
		metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "error").Inc()
		return f.fail(ctrl, FriendlyMessage(err))
	}

	metrics.MagicLinkRequestsTotal.WithLabelValues("signup", "ok").Inc()
	f.cache.Invalidate(
		lookup.KeyStudentUsernames,
		lookup.KeyTeacherUsernames,
		lookup.KeyAdminUsernames,
	)
	ctrl.Reset()
	return Outcome{OK: true, Flash: MsgUserCreated}
}

func (f *SignUpFlow) fail(ctrl *form.Controller, msg string) Outcome {
	ctrl.SetServerError(msg)
	return Outcome{Message: msg}
}

// firstError picks the message shown for a failed server-side validation.
func (f *SignUpFlow) firstError(errs map[string]string) string {
	for _, name := range serverErrorOrder {
		if msg, ok := errs[name]; ok {
			return msg
		}
	}
	return MsgCorrectErrors
}
