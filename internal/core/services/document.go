package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.DocumentService = (*DocumentService)(nil)

// MaxListLimit is the hard cap on page size.
const MaxListLimit = 100

// DocumentService exposes read access to stored documents.
type DocumentService struct {
	store  driven.DocumentStore
	cache  driven.TextCache
	logger *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(store driven.DocumentStore, cache driven.TextCache) *DocumentService {
	return &DocumentService{store: store, cache: cache, logger: slog.Default()}
}

// Get retrieves the full stored record for a document.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	return s.store.GetByID(ctx, id)
}

// GetText returns the extracted text, cache first. A document uploaded
// moments ago is served from the cache even when its background store has
// not landed yet. A cache failure is logged and the store consulted; the
// store still holds the content for any landed document.
func (s *DocumentService) GetText(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}

	text, err := s.cache.Get(ctx, id)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("text cache read failed, falling back to store",
			"document_id", id, "error", err)
	}

	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// GetByFilename retrieves the most recently stored document with the name.
func (s *DocumentService) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}
	return s.store.GetByFilename(ctx, filename)
}

// List returns paginated document summaries, newest first. Limit and
// offset are validated here before they reach the store contract.
func (s *DocumentService) List(ctx context.Context, limit, offset int) ([]*domain.DocumentSummary, error) {
	if limit < 1 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, MaxListLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidInput)
	}
	return s.store.List(ctx, limit, offset), nil
}

// Statistics returns aggregate counters over all stored documents.
func (s *DocumentService) Statistics(ctx context.Context) *domain.AggregateStats {
	return s.store.Stats(ctx)
}
