package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"posterforge/internal/metrics"
)

const (
	DefaultImageBaseURL = "https://api.openai.com"
	DefaultImageTimeout = 60 * time.Second
)

// ImageConfig holds the fixed rendering parameters sent with every prompt.
type ImageConfig struct {
	Config

	Model          string // dall-e-3
	Size           string // 1024x1792
	Quality        string // hd
	Style          string // vivid
	ResponseFormat string // b64_json
}

// ImageClient calls an Images-style generation API and downloads remote
// image references.
type ImageClient struct {
	cfg ImageConfig
	t   *transport
}

// NewImageClient creates an image client with the given configuration.
func NewImageClient(cfg ImageConfig, logger *zap.Logger) (*ImageClient, error) {
	cfg.Config = cfg.Config.withDefaults(DefaultImageBaseURL, DefaultImageTimeout)
	if cfg.Model == "" {
		cfg.Model = "dall-e-3"
	}
	if cfg.Size == "" {
		cfg.Size = "1024x1792"
	}
	if cfg.Quality == "" {
		cfg.Quality = "hd"
	}
	if cfg.Style == "" {
		cfg.Style = "vivid"
	}
	if cfg.ResponseFormat == "" {
		cfg.ResponseFormat = "b64_json"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImageClient{
		cfg: cfg,
		t: &transport{
			cfg:        cfg.Config,
			service:    ServiceImage,
			httpClient: cfg.httpClient(),
			logger:     logger.Named("imageclient"),
		},
	}, nil
}

// Generate renders prompt and returns the first image of the response.
func (c *ImageClient) Generate(parentCtx context.Context, prompt string) (*ImageResponse, error) {
	if prompt == "" {
		return nil, errors.New("llmclient: prompt is empty")
	}
	start := time.Now()

	ctx, cancel := c.t.detach(parentCtx)
	defer cancel()

	req := imagesRequest{
		Model:          c.cfg.Model,
		Prompt:         prompt,
		Size:           c.cfg.Size,
		Quality:        c.cfg.Quality,
		Style:          c.cfg.Style,
		ResponseFormat: c.cfg.ResponseFormat,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	var pResp imagesResponse
	if err := c.t.postJSON(ctx, "/v1/images/generations", header, req, &pResp); err != nil {
		return nil, err
	}

	out := &ImageResponse{}
	if len(pResp.Data) > 0 {
		d := pResp.Data[0]
		out.B64JSON, out.URL, out.RevisedPrompt = d.B64JSON, d.URL, d.RevisedPrompt
	}

	c.t.logger.Info("image request completed",
		zap.String("model", req.Model),
		zap.Bool("inline", out.B64JSON != ""),
		zap.Bool("remote", out.URL != ""),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// Download fetches a remote image reference. It uses the image timeout and,
// like Generate, ignores caller cancellation.
func (c *ImageClient) Download(parentCtx context.Context, url string) ([]byte, error) {
	start := time.Now()
	outcome := "error"
	defer func() { metrics.ObserveUpstream(ServiceDownload, outcome, time.Since(start)) }()

	ctx, cancel := c.t.detach(parentCtx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("llmclient: build download request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			outcome = "timeout"
		}
		return nil, wrapTransport("download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = statusClass(resp.StatusCode)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.t.logger.Warn("image download failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 200)),
		)
		return nil, &UpstreamError{Service: ServiceDownload, StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, wrapTransport("read image", err)
	}
	outcome = "ok"
	return data, nil
}

// HasKey reports whether an API key is configured.
func (c *ImageClient) HasKey() bool { return c.cfg.APIKey != "" }

// Close releases resources held by the client.
func (c *ImageClient) Close() error {
	c.t.httpClient.CloseIdleConnections()
	return nil
}
