package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// MockDocumentStore is an in-memory implementation of DocumentStore for
// testing. Upload timestamps are stamped from a monotonic sequence so
// ordering assertions are deterministic.
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	seq       map[string]int
	nextSeq   int

	// FailStores makes Store report failure without persisting.
	FailStores bool

	// SchemaErr is returned from EnsureSchema when set.
	SchemaErr error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		seq:       make(map[string]int),
	}
}

func (m *MockDocumentStore) EnsureSchema(ctx context.Context) error {
	return m.SchemaErr
}

func (m *MockDocumentStore) Store(ctx context.Context, doc *domain.Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailStores {
		return false
	}

	m.nextSeq++
	stored := *doc
	stored.UploadTimestamp = time.Unix(0, 0).UTC().Add(time.Duration(m.nextSeq) * time.Millisecond)
	m.documents[doc.DocumentID] = &stored
	m.seq[doc.DocumentID] = m.nextSeq
	return true
}

func (m *MockDocumentStore) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockDocumentStore) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *domain.Document
	latestSeq := -1
	for id, doc := range m.documents {
		if doc.Filename == filename && m.seq[id] > latestSeq {
			latest = doc
			latestSeq = m.seq[id]
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (m *MockDocumentStore) List(ctx context.Context, limit, offset int) []*domain.DocumentSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*domain.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return m.seq[docs[i].DocumentID] > m.seq[docs[j].DocumentID]
	})

	summaries := []*domain.DocumentSummary{}
	for i := offset; i < len(docs) && len(summaries) < limit; i++ {
		summaries = append(summaries, docs[i].Summary())
	}
	return summaries
}

func (m *MockDocumentStore) Stats(ctx context.Context) *domain.AggregateStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &domain.AggregateStats{}
	for _, doc := range m.documents {
		stats.TotalDocuments++
		stats.TotalSensitiveInfo += uint64(doc.SensitiveCount)
		stats.TotalEmails += uint64(doc.EmailCount)
		stats.TotalSSNs += uint64(doc.SSNCount)
		if uint64(doc.SensitiveCount) > stats.MaxSensitiveInDoc {
			stats.MaxSensitiveInDoc = uint64(doc.SensitiveCount)
		}
	}
	if stats.TotalDocuments > 0 {
		stats.AvgSensitivePerDoc = float64(stats.TotalSensitiveInfo) / float64(stats.TotalDocuments)
	}
	return stats
}

// Count returns the number of stored documents.
func (m *MockDocumentStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}
