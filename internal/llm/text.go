package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTextBaseURL     = "https://api.anthropic.com"
	DefaultTextModel       = "claude-3-5-sonnet-20241022"
	DefaultTextMaxTokens   = 1000
	DefaultTextTemperature = 0.8
	DefaultTextTimeout     = 30 * time.Second

	anthropicVersion = "2023-06-01"
)

type TextConfig struct {
	Config

	Model     string
	MaxTokens int
	// Temperature is sent as given, zero included; nil uses DefaultTextTemperature.
	Temperature *float64
}

// TextClient calls a Messages-style text generation API.
type TextClient struct {
	cfg         TextConfig
	temperature float64
	t           *transport
}

// NewTextClient creates a text client with the given configuration.
func NewTextClient(cfg TextConfig, logger *zap.Logger) (*TextClient, error) {
	cfg.Config = cfg.Config.withDefaults(DefaultTextBaseURL, DefaultTextTimeout)
	if cfg.Model == "" {
		cfg.Model = DefaultTextModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultTextMaxTokens
	}
	temperature := DefaultTextTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if temperature < 0 || temperature > 1 {
		return nil, errors.New("invalid config: temperature must be between 0 and 1")
	}

	// Use provided logger or no-op
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TextClient{
		cfg:         cfg,
		temperature: temperature,
		t: &transport{
			cfg:        cfg.Config,
			service:    ServiceText,
			httpClient: cfg.httpClient(),
			logger:     logger.Named("textclient"),
		},
	}, nil
}

// Complete sends prompt as a single user turn and returns the first content
// block. The call is detached from ctx cancellation and bounded by the
// configured UpstreamTimeout.
func (c *TextClient) Complete(parentCtx context.Context, prompt string) (*TextResponse, error) {
	if prompt == "" {
		return nil, errors.New("llmclient: prompt is empty")
	}
	start := time.Now()

	ctx, cancel := c.t.detach(parentCtx)
	defer cancel()

	req := messagesRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.temperature,
		Messages: []messagesMessage{{
			Role:    roleUser,
			Content: []contentBlock{{Type: "text", Text: prompt}},
		}},
	}

	header := http.Header{}
	header.Set("x-api-key", c.cfg.APIKey)
	header.Set("anthropic-version", anthropicVersion)

	c.t.logger.Debug("text request starting",
		zap.String("model", req.Model),
		zap.Int("prompt_chars", len(prompt)),
	)

	var pResp messagesResponse
	if err := c.t.postJSON(ctx, "/v1/messages", header, req, &pResp); err != nil {
		return nil, err
	}

	out := &TextResponse{
		ID:         pResp.ID,
		Model:      pResp.Model,
		StopReason: pResp.StopReason,
	}
	if len(pResp.Content) > 0 {
		out.Text = pResp.Content[0].Text
	}
	if pResp.Usage != nil {
		out.Usage = Usage{InputTokens: pResp.Usage.InputTokens, OutputTokens: pResp.Usage.OutputTokens}
	}

	c.t.logger.Info("text request completed",
		zap.String("model", out.Model),
		zap.Int("input_tokens", out.Usage.InputTokens),
		zap.Int("output_tokens", out.Usage.OutputTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// HasKey reports whether an API key is configured.
func (c *TextClient) HasKey() bool { return c.cfg.APIKey != "" }

// Close releases resources held by the client.
func (c *TextClient) Close() error {
	c.t.httpClient.CloseIdleConnections()
	return nil
}
