package driven

import "github.com/veridian-labs/docguard-core/internal/core/domain"

// Scanner detects one category of sensitive data in a text blob.
// Implementations are stateless apart from privately owned precompiled
// pattern state, and are safe for concurrent use.
type Scanner interface {
	// Name identifies the scanner in pipeline listings and logs.
	Name() string

	// Scan returns matches in left-to-right text order.
	Scan(text string) ([]domain.Finding, error)
}

// ScanPipeline runs an ordered set of scanners over document text.
// New detectors register into the pipeline; callers are untouched.
type ScanPipeline interface {
	// Process never fails structurally. A scanner failure downgrades
	// AnalysisResult.Success and keeps the statistics gathered so far.
	Process(text string) *domain.AnalysisResult

	// List returns scanner names in execution order.
	List() []string
}
