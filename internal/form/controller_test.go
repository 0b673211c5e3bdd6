// internal/form/controller_test.go
//
// Maktab – Forms subsystem: controller behavior tests.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"testing"
	"time"

	"github.com/maktab-dev/maktab/internal/validate"
)

// poolStub feeds the lookup-backed rules from fixed slices.
type poolStub struct {
	groups   []string
	students []string
	teachers []string
	admins   []string
	err      error
}

func (p *poolStub) GroupNames(context.Context) ([]string, error)       { return p.groups, p.err }
func (p *poolStub) StudentUsernames(context.Context) ([]string, error) { return p.students, p.err }
func (p *poolStub) TeacherUsernames(context.Context) ([]string, error) { return p.teachers, p.err }
func (p *poolStub) AdminUsernames(context.Context) ([]string, error)   { return p.admins, p.err }

func registry() *validate.Registry {
	return validate.NewRegistry(&poolStub{groups: []string{"Alif", "Ba"}})
}

func newTestController(t *testing.T, fields []Field, draft DraftStore) *Controller {
	t.Helper()
	c := NewController(fields, draft)
	c.Initialize(context.Background())
	return c
}

func TestInitializeSeedsDefaultsAndFocus(t *testing.T) {
	fields, err := StudentSignUpFields(context.Background(), registry(), &poolStub{groups: []string{"Alif"}})
	if err != nil {
		t.Fatalf("build fields: %v", err)
	}
	c := newTestController(t, fields, nil)

	vals := c.Values()
	if got, _ := vals["joinedOn"].Text(); got != time.Now().Format("2006-01-02") {
		t.Errorf("joinedOn default = %q", got)
	}
	if got, _ := vals["fullname"].Text(); got != "" {
		t.Errorf("fullname default = %q, want empty", got)
	}
	if !vals["profileImage"].IsAbsent() {
		t.Error("file field should start absent")
	}
	if c.Focus() != "fullname" {
		t.Errorf("focus = %q, want fullname", c.Focus())
	}
}

func TestChangeValidatesAsync(t *testing.T) {
	fields := SignInFields(registry())
	c := newTestController(t, fields, nil)

	c.HandleFieldChange(context.Background(), "email", validate.Text("not-an-email"))
	c.Flush()
	if got := c.Errors()["email"]; got != "Please enter a valid email address" {
		t.Errorf("error = %q", got)
	}

	c.HandleFieldChange(context.Background(), "email", validate.Text("a@b.co"))
	c.Flush()
	if got, ok := c.Errors()["email"]; ok {
		t.Errorf("error not cleared after valid input: %q", got)
	}
}

func TestStaleValidationDiscarded(t *testing.T) {
	// A slow chain resolving after a newer edit must not clobber the newer
	// result.  The gate releases the slow run only after the fast edit has
	// fully committed.
	release := make(chan struct{})
	slow := func(ctx context.Context, v validate.Value) string {
		if s, _ := v.Text(); s == "first" {
			<-release
			return "stale error"
		}
		return ""
	}
	fields := []Field{TextField(KindText, "name", "Name", slow)}
	c := newTestController(t, fields, nil)

	c.HandleFieldChange(context.Background(), "name", validate.Text("first"))
	c.HandleFieldChange(context.Background(), "name", validate.Text("second"))
	close(release)
	c.Flush()

	if got, ok := c.Errors()["name"]; ok {
		t.Errorf("stale result committed: %q", got)
	}
}

func TestValidateAllFocusAndAtomicReplace(t *testing.T) {
	fields, err := StudentSignUpFields(context.Background(), registry(), &poolStub{groups: []string{"Alif"}})
	if err != nil {
		t.Fatalf("build fields: %v", err)
	}
	c := newTestController(t, fields, nil)

	ctx := context.Background()
	c.HandleFieldChange(ctx, "fullname", validate.Text("Mohammad Sadik"))
	c.HandleFieldChange(ctx, "username", validate.Text("sadik123"))
	c.HandleFieldChange(ctx, "dateOfBirth", validate.Text("2010-01-01"))
	c.HandleFieldChange(ctx, "email", validate.Text("bad"))
	c.HandleFieldChange(ctx, "group", validate.Text("Alif"))
	c.Flush()

	if c.ValidateAll(ctx) {
		t.Fatal("ValidateAll = true with an invalid email")
	}
	errs := c.Errors()
	if errs["email"] != "Please enter a valid email address" {
		t.Errorf("email error = %q", errs["email"])
	}
	if _, ok := errs["fullname"]; ok {
		t.Error("valid field carries an error after atomic replace")
	}
	if c.Focus() != "email" {
		t.Errorf("focus = %q, want email (first errored in order)", c.Focus())
	}

	c.HandleFieldChange(ctx, "email", validate.Text("sadik@example.com"))
	c.Flush()
	if !c.ValidateAll(ctx) {
		t.Fatalf("ValidateAll = false after fixes; errors = %v", c.Errors())
	}
	if len(c.Errors()) != 0 {
		t.Errorf("errors remain after clean pass: %v", c.Errors())
	}
}

func TestResetRestoresDefaultsAndDropsDraft(t *testing.T) {
	draft := NewMemoryDraft()
	fields := SignInFields(registry())
	c := newTestController(t, fields, draft)

	c.HandleFieldChange(context.Background(), "email", validate.Text("bad"))
	c.Flush()
	c.SetServerError("Something went wrong. Please try again.")
	c.Reset()

	if got, _ := c.Values()["email"].Text(); got != "" {
		t.Errorf("value after reset = %q", got)
	}
	if len(c.Errors()) != 0 {
		t.Errorf("errors after reset: %v", c.Errors())
	}
	if c.ServerError() != "" {
		t.Error("server error survived reset")
	}
	if _, ok := draft.Load(); ok {
		t.Error("draft survived reset")
	}
}

func TestDraftRestoreRevalidatesOnce(t *testing.T) {
	draft := NewMemoryDraft()
	draft.Save(map[string]string{"email": "not-an-email", "ghost": "dropped"})

	fields := SignInFields(registry())
	c := newTestController(t, fields, draft)

	if got, _ := c.Values()["email"].Text(); got != "not-an-email" {
		t.Errorf("restored value = %q", got)
	}
	if _, ok := c.Values()["ghost"]; ok {
		t.Error("unknown draft key leaked into values")
	}
	if got := c.Errors()["email"]; got != "Please enter a valid email address" {
		t.Errorf("restored field not revalidated: %q", got)
	}
	if c.Focus() != "email" {
		t.Errorf("focus = %q, want first offending restored field", c.Focus())
	}
}

func TestChangePersistsTextFieldsOnly(t *testing.T) {
	draft := NewMemoryDraft()
	fields := []Field{
		TextField(KindText, "name", "Name", nil),
		FileField("photo", "Photo", nil),
	}
	c := newTestController(t, fields, draft)

	ctx := context.Background()
	c.HandleFieldChange(ctx, "name", validate.Text("abc"))
	c.HandleFieldChange(ctx, "photo", validate.FileOf(validate.File{Name: "p.png", Size: 10, MIME: "image/png"}))
	c.Flush()

	saved, ok := draft.Load()
	if !ok {
		t.Fatal("no draft saved")
	}
	if saved["name"] != "abc" {
		t.Errorf("saved name = %q", saved["name"])
	}
	if _, ok := saved["photo"]; ok {
		t.Error("file field leaked into draft")
	}
}

func TestBlurRevalidatesCommittedValue(t *testing.T) {
	fields := SignInFields(registry())
	c := newTestController(t, fields, nil)

	c.HandleFieldBlur(context.Background(), "email")
	c.Flush()
	if got := c.Errors()["email"]; got != "Email is required" {
		t.Errorf("blur on empty field: error = %q", got)
	}
}

func TestUnknownFieldIgnored(t *testing.T) {
	c := newTestController(t, SignInFields(registry()), nil)
	c.HandleFieldChange(context.Background(), "nope", validate.Text("x"))
	c.Flush()
	if _, ok := c.Values()["nope"]; ok {
		t.Error("unknown field entered values")
	}
}
