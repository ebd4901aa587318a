package driven

import "github.com/veridian-labs/docguard-core/internal/core/domain"

// StoreQueue accepts documents for background persistence.
type StoreQueue interface {
	// Submit queues the document for storage. It reports false when the
	// queue is full or the worker is not running.
	Submit(doc *domain.Document) bool
}
