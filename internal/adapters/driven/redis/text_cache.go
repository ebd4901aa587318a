package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextCache = (*TextCache)(nil)

const textKeyPrefix = "document:text:"

// DefaultTextTTL bounds how long extracted text stays cached.
const DefaultTextTTL = 24 * time.Hour

// TextCache implements driven.TextCache using Redis.
// Entries expire via Redis TTL; the store remains the source of truth.
type TextCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTextCache creates a new Redis-backed TextCache
func NewTextCache(client *redis.Client, ttl time.Duration) *TextCache {
	if ttl <= 0 {
		ttl = DefaultTextTTL
	}
	return &TextCache{client: client, ttl: ttl}
}

// Set caches the extracted text for a document.
func (c *TextCache) Set(ctx context.Context, documentID, text string) error {
	if err := c.client.Set(ctx, textKeyPrefix+documentID, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document text: %w", err)
	}
	return nil
}

// Get returns the cached text or domain.ErrNotFound.
func (c *TextCache) Get(ctx context.Context, documentID string) (string, error) {
	text, err := c.client.Get(ctx, textKeyPrefix+documentID).Result()
	if err == redis.Nil {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cached document text: %w", err)
	}
	return text, nil
}
