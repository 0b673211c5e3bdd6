// internal/form/bind.go
//
// Maktab – Forms subsystem: request binding.
//
// Context
//   POST handlers feed a submitted request into a Controller before running
//   whole-form validation.  Binding walks the field list in order and
//   applies each posted value through HandleFieldChange, so per-field
//   validation and draft persistence behave exactly as they do for
//   interactive edits.  File fields bind metadata only; the content stays
//   in the multipart buffer for the caller to stream.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/maktab-dev/maktab/internal/validate"
)

// MaxUploadBytes caps multipart memory; anything larger spills to disk.
const MaxUploadBytes = 8 << 20

// BindRequest applies the request's posted values to the controller.  The
// returned file header is the profile-image part when one was uploaded, or
// nil.  Callers should Flush (or ValidateAll) afterwards.
func BindRequest(ctx context.Context, c *Controller, r *http.Request) (*multipart.FileHeader, error) {
	var fh *multipart.FileHeader

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return nil, err
	}

	for _, f := range c.Fields() {
		if f.Kind == KindFile {
			if r.MultipartForm == nil {
				continue
			}
			parts := r.MultipartForm.File[f.Name]
			if len(parts) == 0 {
				continue
			}
			fh = parts[0]
			c.HandleFieldChange(ctx, f.Name, validate.FileOf(validate.File{
				Name: fh.Filename,
				Size: fh.Size,
				MIME: fh.Header.Get("Content-Type"),
			}))
			continue
		}
		c.HandleFieldChange(ctx, f.Name, validate.Text(r.PostFormValue(f.Name)))
	}
	return fh, nil
}
