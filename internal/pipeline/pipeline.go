// Package pipeline implements the cross-cutting stages wrapped around every
// outbound request to the remote API: structured request/response logging
// with sensitive-field redaction, and failure classification with a single
// user-facing toast per failed call.
//
// Stages are http.RoundTripper decorators composed into an ordered chain.
// The gateway itself carries no cross-cutting logic; it only sees the
// assembled http.Client.
package pipeline

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/simp-lee/userdesk/internal/notify"
)

// Middleware wraps an http.RoundTripper with additional behavior. A stage is
// free to inspect the request before calling next and the response after.
type Middleware func(next http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain composes middlewares around base so that the first middleware is the
// outermost stage. A nil base falls back to http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// NewClient assembles the standard client for remote API calls: the logging
// stage wraps the error-notification stage wraps the transport, so logging
// observes both raw successes and classified failures.
func NewClient(timeout time.Duration, log *slog.Logger, notifier notify.Notifier) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: Chain(nil,
			Logging(log),
			ErrorNotify(notifier),
		),
	}
}
