package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout marks a call that exceeded its UpstreamTimeout.
var ErrTimeout = errors.New("llmclient: upstream timeout")

// UpstreamError is a non-2xx answer from a provider. Body is kept verbatim.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llmclient: %s upstream %d: %s", e.Service, e.StatusCode, truncate(e.Body, 200))
}

// wrapTransport tags deadline failures with ErrTimeout so callers can tell
// them apart from other transport errors.
func wrapTransport(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("llmclient: %s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("llmclient: %s: %w", op, err)
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
