package mocks

import (
	"context"
	"sync"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// MockTextCache is an in-memory implementation of TextCache for testing
type MockTextCache struct {
	mu    sync.RWMutex
	texts map[string]string

	// SetErr is returned from Set when set, without caching.
	SetErr error

	// GetErr is returned from Get when set, simulating an unreachable
	// cache backend.
	GetErr error
}

// NewMockTextCache creates a new MockTextCache
func NewMockTextCache() *MockTextCache {
	return &MockTextCache{texts: make(map[string]string)}
}

func (m *MockTextCache) Set(ctx context.Context, documentID, text string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[documentID] = text
	return nil
}

func (m *MockTextCache) Get(ctx context.Context, documentID string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.texts[documentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

// Len returns the number of cached texts.
func (m *MockTextCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.texts)
}
