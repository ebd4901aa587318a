package mocks

import (
	"sync"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// MockStoreQueue records submitted documents for testing
type MockStoreQueue struct {
	mu        sync.Mutex
	submitted []*domain.Document

	// Reject makes Submit report false, simulating a full queue.
	Reject bool
}

// NewMockStoreQueue creates a new MockStoreQueue
func NewMockStoreQueue() *MockStoreQueue {
	return &MockStoreQueue{}
}

func (m *MockStoreQueue) Submit(doc *domain.Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Reject {
		return false
	}
	m.submitted = append(m.submitted, doc)
	return true
}

// Submitted returns the documents submitted so far.
func (m *MockStoreQueue) Submitted() []*domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Document, len(m.submitted))
	copy(out, m.submitted)
	return out
}
