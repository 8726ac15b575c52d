package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"posterforge/internal/metrics"
)

const (
	maxRequestSize   = 2 * 1024 * 1024  // 2MB total JSON payload
	maxErrorBodySize = 64 * 1024        // kept verbatim in UpstreamError
	maxResponseSize  = 64 * 1024 * 1024 // inline base64 posters are large
)

// transport is the plumbing shared by the text and image clients.
type transport struct {
	cfg        Config
	service    string
	httpClient *http.Client
	logger     *zap.Logger
}

// detach bounds a call by the service timeout without inheriting the
// caller's cancellation: a client that disconnects does not abort the
// provider call, so its result can still be cached.
func (t *transport) detach(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), t.cfg.UpstreamTimeout)
}

// postJSON sends body to path and decodes a 2xx answer into out. Non-2xx
// answers become *UpstreamError.
func (t *transport) postJSON(ctx context.Context, path string, header http.Header, body, out any) error {
	start := time.Now()
	outcome := "error"
	defer func() { metrics.ObserveUpstream(t.service, outcome, time.Since(start)) }()

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("llmclient: marshal request: %w", err)
	}
	// Sanity check total request size
	if len(bodyBytes) > maxRequestSize {
		return fmt.Errorf("llmclient: request too large (%d bytes, max %d)", len(bodyBytes), maxRequestSize)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("llmclient: build HTTP request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", t.cfg.UserAgent)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		err = wrapTransport("send request", err)
		if ctx.Err() != nil {
			outcome = "timeout"
		}
		t.logger.Error("upstream request failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
	defer resp.Body.Close()

	// Handle non-2xx responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = statusClass(resp.StatusCode)
		return t.upstreamError(resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		err = wrapTransport("decode upstream response", err)
		if ctx.Err() != nil {
			outcome = "timeout"
		}
		return err
	}

	outcome = "ok"
	return nil
}

func (t *transport) upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	// Try to parse structured error for the log line; the body stays verbatim.
	var perr providerErrorResponse
	if err := json.Unmarshal(body, &perr); err == nil && perr.Error.Message != "" {
		t.logger.Error("provider error",
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", perr.Error.Type),
			zap.String("error_message", perr.Error.Message),
		)
	} else {
		t.logger.Error("upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 200)),
		)
	}

	return &UpstreamError{Service: t.service, StatusCode: resp.StatusCode, Body: string(body)}
}

// statusClass buckets a status code for the outcome label ("status_4xx").
func statusClass(code int) string {
	return fmt.Sprintf("status_%dxx", code/100)
}
