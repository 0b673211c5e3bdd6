// internal/message/message.go
//
// Maktab – Messaging stub.
//
// Context
//   The contact form (and other parts of Maktab) enqueue outbound messages
//   such as emails and webhooks.  Until the real queue/worker pool is
//   finished, this stub logs the payload and returns nil so callers proceed
//   without blocking.
//
//   Replace the body of each Enqueue* function with code that publishes to
//   your queue of choice (e.g., Redis, NATS, SQS) when ready.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string // optional – not used by stub
}

// EnqueueEmail logs the email payload.  Swap with real queue publisher later.
func EnqueueEmail(ctx context.Context, msg Email) error {
	zap.S().Infow("queue email",
		"to", msg.To,
		"subject", msg.Subject,
		"text_len", len(msg.Text))
	return nil
}

// EnqueueWebhook logs the HTTP request details.  Swap with real queue later.
//
// Caller constructs the *http.Request with full context (headers, JSON body).
func EnqueueWebhook(ctx context.Context, req *http.Request) error {
	zap.S().Infow("queue webhook",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", len(req.Header))
	return nil
}
