package driven

import "context"

// TextCache holds extracted document text keyed by document id, serving
// reads that arrive while background storage is still in flight.
type TextCache interface {
	Set(ctx context.Context, documentID, text string) error

	// Get returns domain.ErrNotFound when the id is not cached.
	Get(ctx context.Context, documentID string) (string, error)
}
