package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)}
}

func TestMemory_TTL(t *testing.T) {
	clock := newClock()
	c := NewMemory(5*time.Minute, 100, WithClock(clock.Now))

	ctx := context.Background()
	key := "concept:any:any"

	if err := c.Set(ctx, key, []byte("hello")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(5*time.Minute - time.Nanosecond)
	got, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit just before TTL")
	}
	if string(got) != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}

	clock.Advance(time.Nanosecond)
	_, hit, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss once age reaches TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("expected stale entry to be evicted on read, len=%d", c.Len())
	}
}

func TestMemory_SetOverwritesAndRestamps(t *testing.T) {
	clock := newClock()
	c := NewMemory(time.Minute, 100, WithClock(clock.Now))
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v1"))
	clock.Advance(50 * time.Second)
	_ = c.Set(ctx, "k", []byte("v2"))
	clock.Advance(50 * time.Second)

	got, hit, _ := c.Get(ctx, "k")
	if !hit || string(got) != "v2" {
		t.Fatalf("expected fresh v2, got hit=%v value=%q", hit, got)
	}
}

func TestMemory_CopiesValue(t *testing.T) {
	c := NewMemory(time.Minute, 100)
	ctx := context.Background()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf)
	buf[0] = 'z'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("expected stored copy to be unaffected, got %q", got)
	}
}

func TestMemory_SweepOnCapacity(t *testing.T) {
	clock := newClock()
	c := NewMemory(time.Minute, 3, WithClock(clock.Now))
	ctx := context.Background()

	for i := range 3 {
		_ = c.Set(ctx, fmt.Sprintf("old:%d", i), []byte("x"))
	}
	clock.Advance(2 * time.Minute)

	// Reaching capacity alone does not sweep.
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}

	_ = c.Set(ctx, "new:0", []byte("y"))
	if c.Len() != 1 {
		t.Fatalf("expected stale entries swept, got %d", c.Len())
	}
}

func TestMemory_NoSweepOfFreshEntries(t *testing.T) {
	clock := newClock()
	c := NewMemory(time.Minute, 2, WithClock(clock.Now))
	ctx := context.Background()

	for i := range 5 {
		_ = c.Set(ctx, fmt.Sprintf("k:%d", i), []byte("x"))
	}
	if c.Len() != 5 {
		t.Fatalf("expected fresh entries to be kept beyond capacity, got %d", c.Len())
	}
}

func TestMemory_Defaults(t *testing.T) {
	c := NewMemory(0, 0)
	if c.ttl != DefaultTTL || c.capacity != DefaultCapacity {
		t.Fatalf("expected defaults, got ttl=%v capacity=%d", c.ttl, c.capacity)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := NewMemory(time.Minute, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k:%d", (i+j)%20)
				_ = c.Set(ctx, key, []byte("v"))
				_, _, _ = c.Get(ctx, key)
			}
		}()
	}
	wg.Wait()
}
