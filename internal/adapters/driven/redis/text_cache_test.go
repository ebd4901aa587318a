package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// setupTestCache creates a test Redis client and TextCache
func setupTestCache(t *testing.T) (*TextCache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewTextCache(client, time.Hour)

	return cache, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestTextCache_SetGet(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	err := cache.Set(context.Background(), "doc-123", "extracted text body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := cache.Get(context.Background(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "extracted text body" {
		t.Errorf("expected cached text, got %q", text)
	}
}

func TestTextCache_GetMissing(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "nope")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTextCache_Expiry(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	if err := cache.Set(context.Background(), "doc-123", "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// TTL is set on the key
	if mr.TTL(textKeyPrefix+"doc-123") != time.Hour {
		t.Errorf("expected 1h TTL, got %v", mr.TTL(textKeyPrefix+"doc-123"))
	}

	mr.FastForward(2 * time.Hour)

	_, err := cache.Get(context.Background(), "doc-123")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestTextCache_Overwrite(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	_ = cache.Set(context.Background(), "doc-123", "first")
	_ = cache.Set(context.Background(), "doc-123", "second")

	text, err := cache.Get(context.Background(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "second" {
		t.Errorf("expected second write to win, got %q", text)
	}
}
