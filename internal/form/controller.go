// internal/form/controller.go
//
// Maktab – Forms subsystem: form state controller.
//
// Context
//   One Controller is the single source of truth for one form's in-progress
//   values, per-field errors, and focus target.  It bridges field edits to
//   the validator chains and to draft persistence, so a reload or navigation
//   never silently discards a half-completed form.
//
//   Field-level validation is asynchronous: the value write is immediate and
//   the error lands when the chain resolves.  Every edit bumps a per-field
//   generation counter and a resolving chain commits its result only if its
//   generation is still current, so the error map always reflects the most
//   recent validation request per field, regardless of resolution order.
//
//   ValidateAll runs every chain concurrently against a snapshot of the
//   current values and replaces the whole error map atomically; partial
//   states are never observable.
//
// Invariants
//   - error keys ⊆ value keys ⊆ configured field names
//   - file fields never enter the persisted draft and start empty after a
//     restore
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"sync"

	"github.com/maktab-dev/maktab/internal/validate"
)

// Controller owns one form's state.  Safe for concurrent use.
type Controller struct {
	fields []Field
	draft  DraftStore

	mu          sync.Mutex
	values      map[string]validate.Value
	errors      map[string]string
	gen         map[string]uint64
	focus       string
	serverError string

	wg sync.WaitGroup // in-flight field validations
}

// NewController builds a controller for fields, persisting drafts to draft.
// Call Initialize before use.
func NewController(fields []Field, draft DraftStore) *Controller {
	return &Controller{
		fields: fields,
		draft:  draft,
		values: make(map[string]validate.Value, len(fields)),
		errors: make(map[string]string, len(fields)),
		gen:    make(map[string]uint64, len(fields)),
	}
}

// Initialize seeds values from declared defaults overlaid with the persisted
// draft.  Draft keys that no longer exist in the configuration are dropped,
// and file fields always start empty.  When a draft was restored, every
// restored field is revalidated once so stale-but-invalid saved input
// surfaces immediately, with focus moved to the first offending field.
func (c *Controller) Initialize(ctx context.Context) {
	saved, restored := map[string]string{}, false
	if c.draft != nil {
		saved, restored = c.draft.Load()
	}

	c.mu.Lock()
	for _, f := range c.fields {
		switch {
		case f.Kind == KindFile:
			c.values[f.Name] = validate.Absent()
		default:
			v := f.Default
			if s, ok := saved[f.Name]; restored && ok {
				v = s
			}
			c.values[f.Name] = validate.Text(v)
		}
		if f.AutoFocus {
			c.focus = f.Name
		}
	}
	c.mu.Unlock()

	if restored {
		c.revalidateRestored(ctx, saved)
	}
}

// revalidateRestored is the one-shot pass over restored draft values.  Only
// non-empty restored fields are checked; declared defaults that the user
// never touched are left alone.
func (c *Controller) revalidateRestored(ctx context.Context, saved map[string]string) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]string)
	)
	for _, f := range c.fields {
		s, ok := saved[f.Name]
		if !ok || s == "" || f.Rule == nil || f.Kind == KindFile {
			continue
		}
		wg.Add(1)
		go func(f Field, s string) {
			defer wg.Done()
			if msg := f.Rule(ctx, validate.Text(s)); msg != "" {
				mu.Lock()
				results[f.Name] = msg
				mu.Unlock()
			}
		}(f, s)
	}
	wg.Wait()

	if len(results) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, msg := range results {
		c.errors[name] = msg
	}
	for _, f := range c.fields { // first offender in configuration order
		if _, bad := results[f.Name]; bad {
			c.focus = f.Name
			break
		}
	}
}

// Fields returns the immutable configuration the controller was built with.
func (c *Controller) Fields() []Field { return c.fields }

// Values returns a snapshot of the current values.
func (c *Controller) Values() map[string]validate.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]validate.Value, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// TextValues projects the current values into plain strings for template
// prefill.  File values have no textual echo and are omitted.
func (c *Controller) TextValues() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		if s, ok := v.Text(); ok {
			out[k] = s
		}
	}
	return out
}

// Errors returns a snapshot of the current error map.  Fields without an
// error are absent.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Focus returns the name of the field that should receive input focus on the
// next render.
func (c *Controller) Focus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

// ServerError returns the top-level message from the last failed submission.
func (c *Controller) ServerError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverError
}

// SetServerError records a top-level submission error.
func (c *Controller) SetServerError(msg string) {
	c.mu.Lock()
	c.serverError = msg
	c.mu.Unlock()
}

// HandleFieldChange writes the value immediately and kicks off asynchronous
// validation of that field alone.  The visible value never waits on the
// chain; the error can lag by one resolution.  Unknown names are ignored.
func (c *Controller) HandleFieldChange(ctx context.Context, name string, v validate.Value) {
	f, ok := fieldByName(c.fields, name)
	if !ok {
		return
	}

	c.mu.Lock()
	c.values[name] = v
	c.gen[name]++
	gen := c.gen[name]
	c.mu.Unlock()

	c.persist()
	c.spawnValidation(ctx, f, v, gen)
}

// HandleFieldBlur revalidates the committed value of name.
func (c *Controller) HandleFieldBlur(ctx context.Context, name string) {
	f, ok := fieldByName(c.fields, name)
	if !ok {
		return
	}

	c.mu.Lock()
	v := c.values[name]
	c.gen[name]++
	gen := c.gen[name]
	c.mu.Unlock()

	c.spawnValidation(ctx, f, v, gen)
}

// spawnValidation runs the chain in its own goroutine and commits the result
// only if no newer request for the field exists.
func (c *Controller) spawnValidation(ctx context.Context, f Field, v validate.Value, gen uint64) {
	if f.Rule == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		msg := f.Rule(ctx, v)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen[f.Name] != gen {
			return // superseded by a later edit
		}
		if msg == "" {
			delete(c.errors, f.Name)
		} else {
			c.errors[f.Name] = msg
		}
	}()
}

// Flush blocks until every in-flight field validation has committed or been
// discarded.  Submission paths call it before reading the error map.
func (c *Controller) Flush() { c.wg.Wait() }

// ValidateAll validates every field concurrently against the current values,
// replaces the entire error map atomically, and reports whether the form is
// clean.  On failure, focus moves to the first errored field in
// configuration order.  In-flight field validations are superseded.
func (c *Controller) ValidateAll(ctx context.Context) bool {
	c.mu.Lock()
	snapshot := make(map[string]validate.Value, len(c.values))
	for k, v := range c.values {
		snapshot[k] = v
	}
	// Invalidate stragglers: their generation can no longer match.
	for _, f := range c.fields {
		c.gen[f.Name]++
	}
	c.mu.Unlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]string)
	)
	for _, f := range c.fields {
		if f.Rule == nil {
			continue
		}
		wg.Add(1)
		go func(f Field) {
			defer wg.Done()
			if msg := f.Rule(ctx, snapshot[f.Name]); msg != "" {
				mu.Lock()
				results[f.Name] = msg
				mu.Unlock()
			}
		}(f)
	}
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = results
	if len(results) == 0 {
		return true
	}
	for _, f := range c.fields {
		if _, bad := results[f.Name]; bad {
			c.focus = f.Name
			break
		}
	}
	return false
}

// ClearErrors resets the error map without touching values.
func (c *Controller) ClearErrors() {
	c.mu.Lock()
	c.errors = make(map[string]string, len(c.fields))
	c.mu.Unlock()
}

// Reset discards the persisted draft, restores declared defaults, and clears
// both field errors and the server error.
func (c *Controller) Reset() {
	if c.draft != nil {
		c.draft.Clear()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.fields {
		if f.Kind == KindFile {
			c.values[f.Name] = validate.Absent()
		} else {
			c.values[f.Name] = validate.Text(f.Default)
		}
		c.gen[f.Name]++
		if f.AutoFocus {
			c.focus = f.Name
		}
	}
	c.errors = make(map[string]string, len(c.fields))
	c.serverError = ""
}

// persist serializes the flat string projection of the current values.  File
// fields are deliberately excluded: after a reload they always start empty.
func (c *Controller) persist() {
	if c.draft == nil {
		return
	}

	c.mu.Lock()
	flat := make(map[string]string, len(c.values))
	for _, f := range c.fields {
		if !f.Kind.IsTextLike() {
			continue
		}
		if s, ok := c.values[f.Name].Text(); ok {
			flat[f.Name] = s
		}
	}
	c.mu.Unlock()

	c.draft.Save(flat)
}
