package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"posterforge/pkg/logging/logging"
)

func decodeFailure(t *testing.T, rr *httptest.ResponseRecorder) failure {
	t.Helper()
	var f failure
	if err := json.Unmarshal(rr.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return f
}

func TestLoggingContextAttachesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	h := chimw.RequestID(LoggingContext(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.L(r.Context()).Info("inside")
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/generate-concept", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}

	inside := entries[0].ContextMap()
	if inside["path"] != "/api/generate-concept" || inside["method"] != http.MethodPost {
		t.Fatalf("unexpected request fields: %v", inside)
	}
	if id, _ := inside["request_id"].(string); id == "" {
		t.Fatalf("expected request_id field, got %v", inside)
	}

	done := entries[1]
	if done.Message != "request completed" {
		t.Fatalf("unexpected message %q", done.Message)
	}
	if done.ContextMap()["status"] != int64(http.StatusCreated) {
		t.Fatalf("unexpected status field: %v", done.ContextMap()["status"])
	}
}

func TestRecovererWritesEnvelope(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	f := decodeFailure(t, rr)
	if f.Success || f.Code != "INTERNAL" || f.Error != "Internal server error" {
		t.Fatalf("unexpected envelope: %+v", f)
	}
}

func TestTimeoutPassesThroughFastHandler(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, "done")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusAccepted || rr.Body.String() != "done" || rr.Header().Get("X-Test") != "yes" {
		t.Fatalf("unexpected response: %d %q %v", rr.Code, rr.Body.String(), rr.Header())
	}
}

func TestTimeoutWritesGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	h := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		<-release
		_, _ = io.WriteString(w, "late")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rr.Code)
	}
	if f := decodeFailure(t, rr); f.Code != "UPSTREAM_TIMEOUT" {
		t.Fatalf("unexpected code %q", f.Code)
	}
}

func TestTimeoutPanicReachesRecoverer(t *testing.T) {
	h := Recoverer()(Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("inside timeout")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too large")))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

type stubLimiter struct {
	allow bool
	wait  time.Duration
	keys  []string
}

func (s *stubLimiter) Allow(key string) (bool, time.Duration) {
	s.keys = append(s.keys, key)
	return s.allow, s.wait
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed", func(t *testing.T) {
		lim := &stubLimiter{allow: true}
		req := httptest.NewRequest(http.MethodPost, "/api/x", nil)
		req.RemoteAddr = "192.0.2.7:5123"

		rr := httptest.NewRecorder()
		RateLimit(lim)(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if len(lim.keys) != 1 || lim.keys[0] != "192.0.2.7" {
			t.Fatalf("expected key without port, got %v", lim.keys)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		lim := &stubLimiter{allow: false, wait: 1500 * time.Millisecond}
		rr := httptest.NewRecorder()
		RateLimit(lim)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/x", nil))

		if rr.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rr.Code)
		}
		if got := rr.Header().Get("Retry-After"); got != "2" {
			t.Fatalf("expected Retry-After 2, got %q", got)
		}
		if f := decodeFailure(t, rr); f.Code != "RATE_LIMITED" || f.Success {
			t.Fatalf("unexpected envelope %+v", f)
		}
	})
}
