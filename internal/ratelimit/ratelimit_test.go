package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		requests int
		window   time.Duration
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			requests: 3,
			window:   time.Minute,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			requests: 20,
			window:   15 * time.Minute,
			calls:    25,
			wantPass: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.requests, tt.window)
			now := time.Now()
			rl.now = func() time.Time { return now }

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if ok, _ := rl.Allow("10.0.0.1"); ok {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(1, time.Minute)

	if ok, _ := rl.Allow("a"); !ok {
		t.Fatalf("expected first request for a to pass")
	}
	if ok, _ := rl.Allow("a"); ok {
		t.Fatalf("expected second request for a to be limited")
	}
	if ok, _ := rl.Allow("b"); !ok {
		t.Fatalf("expected b to have its own bucket")
	}
}

func TestKeyedRateLimiter_RetryAfterAndRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := New(20, 15*time.Minute)
	rl.now = func() time.Time { return now }

	for range 20 {
		rl.Allow("ip")
	}
	ok, retry := rl.Allow("ip")
	if ok {
		t.Fatalf("expected limit after 20 requests")
	}
	// One token every 45s.
	if retry <= 0 || retry > 45*time.Second {
		t.Fatalf("unexpected retry-after %v", retry)
	}

	now = now.Add(45 * time.Second)
	if ok, _ := rl.Allow("ip"); !ok {
		t.Fatalf("expected a token after 45s")
	}
}

func TestKeyedRateLimiter_PrunesIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := New(1, time.Minute)
	rl.now = func() time.Time { return now }

	for i := range pruneThreshold {
		rl.Allow(fmt.Sprintf("ip-%d", i))
	}
	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")

	if rl.Len() != 1 {
		t.Fatalf("expected idle keys pruned, have %d", rl.Len())
	}
}
