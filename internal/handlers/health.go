package handlers

import (
	"net/http"
	"time"

	domainerrors "posterforge/internal/errors"
)

type HealthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	Environment     string    `json:"environment"`
	HasAnthropicKey bool      `json:"hasAnthropicKey"`
	HasOpenAIKey    bool      `json:"hasOpenAIKey"`
	Version         string    `json:"version"`
}

type HealthHandler struct {
	env, version      string
	hasText, hasImage bool
	now               func() time.Time
}

// NewHealthHandler reports static service facts. The key flags say whether a
// key is configured, not whether the provider accepts it.
func NewHealthHandler(env, version string, hasTextKey, hasImageKey bool) *HealthHandler {
	return &HealthHandler{
		env:      env,
		version:  version,
		hasText:  hasTextKey,
		hasImage: hasImageKey,
		now:      time.Now,
	}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "OK",
		Timestamp:       h.now().UTC(),
		Environment:     h.env,
		HasAnthropicKey: h.hasText,
		HasOpenAIKey:    h.hasImage,
		Version:         h.version,
	})
}

// Liveness handles GET /healthz.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type notFoundResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    domainerrors.Code `json:"code"`
	Path    string            `json:"path"`
}

// NotFound answers unknown routes with the JSON failure envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	e := domainerrors.NotFound("Endpoint not found")
	writeJSON(w, e.HTTPStatus(), notFoundResponse{
		Error: e.Message,
		Code:  e.Code,
		Path:  r.URL.Path,
	})
}
