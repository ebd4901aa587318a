package driving

import (
	"context"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// IngestService accepts an uploaded document, extracts its text, runs the
// scan pipeline and hands the result to storage.
type IngestService interface {
	Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadReceipt, error)
}
