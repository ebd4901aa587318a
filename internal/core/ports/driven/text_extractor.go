package driven

import "context"

// TextExtractor maps raw document bytes to a single plain-text string.
// Page order is preserved; no separator is guaranteed between pages.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}
