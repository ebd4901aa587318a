package driven

import (
	"context"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// DocumentStore persists documents and their analysis results.
//
// Failure policy: lookups return domain.ErrNotFound rather than propagating
// a broken pool or connection, List returns an empty slice, Stats returns a
// zero-valued struct and Store reports false. Implementations log the
// underlying cause; callers decide whether to retry.
type DocumentStore interface {
	// EnsureSchema creates the backing table if it does not exist.
	// Idempotent, safe to call on every startup. A failure here is fatal:
	// the system cannot operate without its table.
	EnsureSchema(ctx context.Context) error

	// Store upserts the document keyed by DocumentID and stamps its
	// upload timestamp at write time. A second Store with the same id
	// updates the record in place rather than duplicating it.
	Store(ctx context.Context, doc *domain.Document) bool

	// GetByID retrieves a document by its id.
	GetByID(ctx context.Context, id string) (*domain.Document, error)

	// GetByFilename retrieves the most recently stored document carrying
	// the filename. Filenames are not unique; ties go to the latest write.
	GetByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// List returns document summaries ordered by upload timestamp
	// descending. Limit and offset must be validated by the caller.
	List(ctx context.Context, limit, offset int) []*domain.DocumentSummary

	// Stats runs a single aggregate query over the whole document set.
	Stats(ctx context.Context) *domain.AggregateStats
}
