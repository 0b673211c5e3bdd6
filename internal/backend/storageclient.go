// internal/backend/storageclient.go
//
// Maktab – Backend collaborator: profile-image object storage.
//
// Context
//   Profile images live in one public bucket on the hosted service.  Upload
//   is a single PUT-style POST; the public URL is derived from the object
//   path, no signing involved.  Object names are generated here so every
//   caller names images the same way: the user's identity when known, or a
//   random+timestamp fallback, with the extension derived from the MIME type.
//
//------------------------------------------------------------------------------

package backend

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Compile-time assertion: *StorageClient satisfies StorageAPI.
var _ StorageAPI = (*StorageClient)(nil)

// StorageClient uploads objects to the service's storage endpoint.
type StorageClient struct {
	baseURL string
	apiKey  string
	bucket  string
	http    *http.Client
}

// NewStorageClient builds a client writing into bucket.
func NewStorageClient(baseURL, apiKey, bucket string) *StorageClient {
	return &StorageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores content under name and returns the object's public URL.
func (c *StorageClient) Upload(ctx context.Context, name, mime string, content io.Reader) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, content)
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", mime)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}
	return c.PublicURL(name), nil
}

// PublicURL derives the unauthenticated URL of an uploaded object.
func (c *StorageClient) PublicURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, name)
}

// ImageObjectName generates the object name for a profile image: the owner's
// user ID when known, otherwise a random hex run plus a timestamp, with the
// extension picked from the declared MIME type.
func ImageObjectName(userID, mime string) string {
	var ext string
	switch mime {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	default:
		ext = "bin"
	}

	base := userID
	if base == "" {
		buf := make([]byte, 6)
		_, _ = rand.Read(buf)
		base = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
	}
	return base + "." + ext
}
