package llm

import (
	"context"
	"time"
)

// defaultCompletionTimeout bounds a single completion when the config gives
// no timeout.
const defaultCompletionTimeout = 60 * time.Second

// timeoutClient attaches a per-call deadline to every completion so a hung
// backend cannot stall a query for longer than the configured timeout.
type timeoutClient struct {
	inner   Client
	timeout time.Duration
}

// WithTimeout wraps a client so each Complete call runs under its own
// deadline. A non-positive timeout falls back to the 60 s default.
func WithTimeout(inner Client, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &timeoutClient{inner: inner, timeout: timeout}
}

// Complete implements the Client interface.
func (t *timeoutClient) Complete(ctx context.Context, role Role, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Complete(ctx, role, system, user)
}
