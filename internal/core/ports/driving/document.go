package driving

import (
	"context"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// DocumentService exposes read access to stored documents.
type DocumentService interface {
	// Get retrieves the full stored record for a document.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetText returns the extracted text for a document, consulting the
	// cache before the store so a read immediately after upload succeeds
	// even while background storage is in flight.
	GetText(ctx context.Context, id string) (string, error)

	// GetByFilename retrieves the most recently stored document with the
	// given filename.
	GetByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// List returns paginated document summaries, newest first.
	// Limit must be between 1 and the hard cap, offset non-negative.
	List(ctx context.Context, limit, offset int) ([]*domain.DocumentSummary, error)

	// Statistics returns aggregate counters over all stored documents.
	Statistics(ctx context.Context) *domain.AggregateStats
}
