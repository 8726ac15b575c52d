package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewTextClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTextClient(TextConfig{Config: Config{BaseURL: "ftp://example"}}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}
}

func TestNewTextClientDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewTextClient(TextConfig{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}
	if c.cfg.BaseURL != DefaultTextBaseURL || c.cfg.Model != DefaultTextModel {
		t.Fatalf("unexpected defaults: %+v", c.cfg)
	}
	if c.cfg.UpstreamTimeout != DefaultTextTimeout || c.cfg.MaxTokens != 1000 || c.temperature != 0.8 {
		t.Fatalf("unexpected defaults: %+v", c.cfg)
	}
	if c.HasKey() {
		t.Fatalf("expected no key")
	}
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	var gotReq messagesRequest
	var gotHeader http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		gotHeader = r.Header.Clone()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id":"msg_1","model":"claude-3-5-sonnet-20241022","stop_reason":"end_turn",
			"content":[{"type":"text","text":"{\"title\":\"Night Tide\"}"}],
			"usage":{"input_tokens":12,"output_tokens":7}
		}`)
	}))
	defer srv.Close()

	client, err := NewTextClient(TextConfig{Config: Config{
		BaseURL: srv.URL + "/",
		APIKey:  "test-key",
	}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Complete(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotHeader.Get("x-api-key") != "test-key" {
		t.Fatalf("unexpected x-api-key header: %s", gotHeader.Get("x-api-key"))
	}
	if gotHeader.Get("anthropic-version") != "2023-06-01" {
		t.Fatalf("unexpected anthropic-version header: %s", gotHeader.Get("anthropic-version"))
	}
	if gotHeader.Get("User-Agent") != defaultUserAgent {
		t.Fatalf("unexpected user agent: %s", gotHeader.Get("User-Agent"))
	}
	if gotReq.Model != DefaultTextModel || gotReq.MaxTokens != 1000 || gotReq.Temperature != 0.8 {
		t.Fatalf("unexpected request: %#v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" ||
		gotReq.Messages[0].Content[0].Type != "text" || gotReq.Messages[0].Content[0].Text != "ping" {
		t.Fatalf("unexpected request messages: %#v", gotReq.Messages)
	}

	if resp.Text != `{"title":"Night Tide"}` {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if resp.Usage.OutputTokens != 7 {
		t.Fatalf("usage not mapped correctly: %#v", resp.Usage)
	}
}

func TestCompleteSendsZeroTemperature(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"msg_3","content":[{"type":"text","text":"{}"}]}`)
	}))
	defer srv.Close()

	zero := 0.0
	client, err := NewTextClient(TextConfig{Config: Config{BaseURL: srv.URL}, Temperature: &zero}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}

	if _, err := client.Complete(context.Background(), "ping"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	temp, ok := raw["temperature"].(float64)
	if !ok || temp != 0 {
		t.Fatalf("expected temperature 0 on the wire, got %v", raw["temperature"])
	}
}

func TestNewTextClientRejectsTemperatureOutOfRange(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{-0.1, 1.5} {
		v := v
		if _, err := NewTextClient(TextConfig{Temperature: &v}, zaptest.NewLogger(t)); err == nil {
			t.Fatalf("expected error for temperature %v", v)
		}
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"msg_2","content":[]}`)
	}))
	defer srv.Close()

	client, err := NewTextClient(TextConfig{Config: Config{BaseURL: srv.URL}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}

	resp, err := client.Complete(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "" {
		t.Fatalf("expected empty text, got %q", resp.Text)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	t.Parallel()

	const body = `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	client, err := NewTextClient(TextConfig{Config: Config{BaseURL: srv.URL}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}

	_, err = client.Complete(context.Background(), "ping")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusUnauthorized || upErr.Body != body || upErr.Service != ServiceText {
		t.Fatalf("unexpected upstream error: %#v", upErr)
	}
}

func TestCompleteTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewTextClient(TextConfig{Config: Config{
		BaseURL:         srv.URL,
		UpstreamTimeout: 50 * time.Millisecond,
	}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}

	_, err = client.Complete(context.Background(), "ping")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCompleteIgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"done"}]}`)
	}))
	defer srv.Close()

	client, err := NewTextClient(TextConfig{Config: Config{BaseURL: srv.URL}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTextClient: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := client.Complete(ctx, "ping")
	if err != nil {
		t.Fatalf("expected call to survive caller cancellation, got %v", err)
	}
	if resp.Text != "done" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}

func TestGenerateAndDownload(t *testing.T) {
	t.Parallel()

	var gotReq imagesRequest
	var gotAuth string

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(imagesResponse{Data: []imagesDatum{{
			URL:           srv.URL + "/files/poster.png",
			RevisedPrompt: "a revised prompt",
		}}})
	})
	mux.HandleFunc("/files/poster.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PNGDATA"))
	})

	client, err := NewImageClient(ImageConfig{Config: Config{BaseURL: srv.URL, APIKey: "img-key"}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewImageClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Generate(context.Background(), "a haunted lighthouse")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotAuth != "Bearer img-key" {
		t.Fatalf("unexpected Authorization header: %s", gotAuth)
	}
	want := imagesRequest{
		Model: "dall-e-3", Prompt: "a haunted lighthouse", Size: "1024x1792",
		Quality: "hd", Style: "vivid", ResponseFormat: "b64_json",
	}
	if gotReq != want {
		t.Fatalf("unexpected request: %#v", gotReq)
	}
	if resp.B64JSON != "" || resp.RevisedPrompt != "a revised prompt" {
		t.Fatalf("unexpected response: %#v", resp)
	}

	data, err := client.Download(context.Background(), resp.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Fatalf("unexpected image bytes: %q", data)
	}
}

func TestDownloadNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client, err := NewImageClient(ImageConfig{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewImageClient: %v", err)
	}

	_, err = client.Download(context.Background(), srv.URL+"/gone.png")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.StatusCode != http.StatusNotFound || upErr.Service != ServiceDownload {
		t.Fatalf("expected download 404, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestGenerateNoData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"created":1,"data":[]}`)
	}))
	defer srv.Close()

	client, err := NewImageClient(ImageConfig{Config: Config{BaseURL: srv.URL}}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewImageClient: %v", err)
	}

	resp, err := client.Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.B64JSON != "" || resp.URL != "" {
		t.Fatalf("expected empty image response, got %#v", resp)
	}
}
