package memory

import (
	"context"
	"sync"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextCache = (*TextCache)(nil)

// TextCache is an in-process driven.TextCache used when Redis is not
// configured. Entries live until process exit; single-instance only.
type TextCache struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewTextCache creates a new in-memory TextCache
func NewTextCache() *TextCache {
	return &TextCache{texts: make(map[string]string)}
}

func (c *TextCache) Set(ctx context.Context, documentID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[documentID] = text
	return nil
}

func (c *TextCache) Get(ctx context.Context, documentID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.texts[documentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}
