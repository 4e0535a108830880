package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func TestFetchReadsThrough(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, nil)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, Artists, "list", load)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got) != 2 || got[0] != "a" {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected loader once, got %d", calls)
	}
	if ttl := backend.ttls["musicbox:artists:list"]; ttl != DefaultTTLs[Artists] {
		t.Fatalf("expected ttl %v, got %v", DefaultTTLs[Artists], ttl)
	}
}

func TestInvalidateDropsFamilyOnly(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, nil)
	ctx := context.Background()
	load := func(context.Context) (int, error) { return 1, nil }

	_, _ = Fetch(ctx, c, Songs, "list", load)
	_, _ = Fetch(ctx, c, Albums, "list", load)
	c.Invalidate(ctx, Songs)

	if _, ok := backend.entries["musicbox:songs:list"]; ok {
		t.Fatalf("expected songs entry to be dropped")
	}
	if _, ok := backend.entries["musicbox:albums:list"]; !ok {
		t.Fatalf("expected albums entry to survive")
	}
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, nil)
	boom := errors.New("db down")

	_, err := Fetch(context.Background(), c, Videos, "v1", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if len(backend.entries) != 0 {
		t.Fatalf("expected nothing cached, got %v", backend.entries)
	}
}

func TestFetchSurvivesBackendFailure(t *testing.T) {
	backend := newMemoryBackend()
	backend.failGet = true
	c := New(backend, nil)

	got, err := Fetch(context.Background(), c, Songs, "s1", func(context.Context) (string, error) { return "fresh", nil })
	if err != nil || got != "fresh" {
		t.Fatalf("expected fresh value, got %q err=%v", got, err)
	}
}

func TestDisabledCacheAlwaysLoads(t *testing.T) {
	var nilCache *Cache
	for _, c := range []*Cache{Disabled(), nilCache, New(newMemoryBackend(), TTLs{})} {
		calls := 0
		load := func(context.Context) (int, error) { calls++; return calls, nil }
		_, _ = Fetch(context.Background(), c, Artists, "k", load)
		_, _ = Fetch(context.Background(), c, Artists, "k", load)
		if calls != 2 {
			t.Fatalf("expected loader on every call, got %d", calls)
		}
		c.Invalidate(context.Background(), Artists)
	}
}
