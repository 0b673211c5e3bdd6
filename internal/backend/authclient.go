// internal/backend/authclient.go
//
// Maktab – Backend collaborator: hosted auth-service client.
//
// Context
//   The auth service implements passwordless sign-in: we POST an OTP request,
//   the service emails the user a magic link, and redeeming the link hands
//   the browser an access token.  This client wraps the three REST calls the
//   app consumes (otp, user, logout) and fans auth events out to subscribers,
//   which is how the session provider learns about state changes.
//
//   HTTP errors are decoded into *APIError carrying the service's message
//   string untouched.  Mapping raw messages to friendly copy is the
//   submission flow's job, not this package's.
//
//------------------------------------------------------------------------------

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError carries the auth service's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth service: %s (status %d)", e.Message, e.StatusCode)
}

// Compile-time assertion: *AuthClient satisfies AuthAPI.
var _ AuthAPI = (*AuthClient)(nil)

// AuthClient talks to the hosted auth service over JSON/HTTP.
type AuthClient struct {
	baseURL string
	apiKey  string
	http    *http.Client

	subMu sync.Mutex
	subs  map[int]func(AuthEvent)
	nextS int
}

// NewAuthClient builds a client for the service rooted at baseURL.
func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		subs:    make(map[int]func(AuthEvent)),
	}
}

// RequestOTP asks the service to email a magic link.
func (c *AuthClient) RequestOTP(ctx context.Context, req OTPRequest) error {
	body := map[string]any{
		"email":       strings.ToLower(req.Email),
		"create_user": req.CreateUser,
	}
	if req.Metadata != nil {
		body["data"] = req.Metadata
	}

	endpoint := c.baseURL + "/auth/v1/otp"
	if req.RedirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(req.RedirectTo)
	}
	return c.do(ctx, http.MethodPost, endpoint, "", body, nil)
}

// UserForToken resolves an access token to its user.
func (c *AuthClient) UserForToken(ctx context.Context, token string) (*AuthUser, error) {
	var payload struct {
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		Role         string         `json:"role"`
		UserMetadata map[string]any `json:"user_metadata"`
	}
	err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", token, nil, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &AuthUser{
		ID:       payload.ID,
		Email:    payload.Email,
		Role:     payload.Role,
		Metadata: payload.UserMetadata,
	}, nil
}

// SignOut revokes the token and publishes the sign-out event.
func (c *AuthClient) SignOut(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", token, nil, nil); err != nil {
		return err
	}
	c.Publish(AuthEvent{Type: EventSignedOut, Token: token})
	return nil
}

// Subscribe registers fn for auth events.
func (c *AuthClient) Subscribe(fn func(AuthEvent)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextS
	c.nextS++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Publish delivers ev to every subscriber.  The magic-link redemption
// handler calls this when a token first reaches the app.
func (c *AuthClient) Publish(ev AuthEvent) {
	c.subMu.Lock()
	fns := make([]func(AuthEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// do performs one JSON round-trip.  A non-2xx response decodes into APIError.
func (c *AuthClient) do(ctx context.Context, method, endpoint, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError extracts the service's message from its error body.  The
// service uses either {"msg": ...} or {"error_description": ...}.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var payload struct {
		Msg  string `json:"msg"`
		Desc string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Msg
	if msg == "" {
		msg = payload.Desc
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
