package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"posterforge/internal/metrics"
	"posterforge/pkg/logging/logging"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func TestInstrumented_CountsByNamespace(t *testing.T) {
	c := NewInstrumented(NewMemory(0, 0))
	ctx := context.Background()

	miss := metrics.CacheLookupsTotal.WithLabelValues("concept", "miss")
	hit := metrics.CacheLookupsTotal.WithLabelValues("concept", "hit")
	missBefore, hitBefore := testutil.ToFloat64(miss), testutil.ToFloat64(hit)

	_, _, _ = c.Get(ctx, ConceptKey("horror", "1980s"))
	_ = c.Set(ctx, ConceptKey("horror", "1980s"), []byte("{}"))
	_, _, _ = c.Get(ctx, ConceptKey("horror", "1980s"))

	if d := testutil.ToFloat64(miss) - missBefore; d != 1 {
		t.Fatalf("expected 1 miss, got %v", d)
	}
	if d := testutil.ToFloat64(hit) - hitBefore; d != 1 {
		t.Fatalf("expected 1 hit, got %v", d)
	}
}

func TestInstrumented_LogsErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))
	c := NewInstrumented(failingStore{})

	if _, _, err := c.Get(ctx, "image:abc"); err == nil {
		t.Fatalf("expected error to pass through")
	}
	if err := c.Set(ctx, "image:abc", nil); err == nil {
		t.Fatalf("expected error to pass through")
	}

	if logs.FilterMessage("cache_get").Len() != 1 || logs.FilterMessage("cache_set").Len() != 1 {
		t.Fatalf("expected one warning per failed call, got %d entries", logs.Len())
	}
}

func TestKeys(t *testing.T) {
	if got := ConceptKey("sci-fi", "any"); got != "concept:sci-fi:any" {
		t.Fatalf("unexpected concept key %q", got)
	}

	concept := map[string]any{"title": "Neon Parallax", "decade": "1980s"}
	a, err := ImageKey(concept, "rain")
	if err != nil {
		t.Fatalf("image key: %v", err)
	}
	b, _ := ImageKey(concept, "rain")
	c, _ := ImageKey(concept, "snow")

	if a != b {
		t.Fatalf("expected deterministic key")
	}
	if a == c {
		t.Fatalf("expected visual elements to change the key")
	}
	if Namespace(a) != NamespaceImage || len(a) != len("image:")+64 {
		t.Fatalf("unexpected image key %q", a)
	}
	if Namespace("nokey") != "other" {
		t.Fatalf("expected fallback namespace")
	}
}
