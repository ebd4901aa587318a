package scanners

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ScanPipeline = (*Pipeline)(nil)

// Pipeline implements ScanPipeline.
// It runs registered scanners in order over a text blob and merges their
// findings into a single analysis result.
type Pipeline struct {
	mu       sync.RWMutex
	scanners []driven.Scanner
	logger   *slog.Logger
}

// NewPipeline creates an empty scan pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		scanners: make([]driven.Scanner, 0),
		logger:   logger,
	}
}

// DefaultPipeline creates a pipeline with the default scanners.
func DefaultPipeline(logger *slog.Logger) *Pipeline {
	p := NewPipeline(logger)
	p.Add(NewEmailScanner())
	p.Add(NewSSNScanner())
	return p
}

// Add registers a scanner at the end of the execution order.
func (p *Pipeline) Add(scanner driven.Scanner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scanners = append(p.scanners, scanner)
}

// Process runs all scanners over text. It never fails structurally: a
// scanner failure downgrades Success, keeps the findings gathered so far
// and skips the remaining scanners. TotalCharsProcessed and HandlersUsed
// are populated even on failure.
func (p *Pipeline) Process(text string) *domain.AnalysisResult {
	start := time.Now()

	p.mu.RLock()
	scanners := make([]driven.Scanner, len(p.scanners))
	copy(scanners, p.scanners)
	p.mu.RUnlock()

	result := &domain.AnalysisResult{
		Success:  true,
		Findings: []domain.Finding{},
		Statistics: domain.Statistics{
			TotalCharsProcessed: len(text),
			HandlersUsed:        len(scanners),
			FindingsByType:      make(map[string]int),
		},
	}

	for _, scanner := range scanners {
		findings, err := p.scan(scanner, text)
		result.Findings = append(result.Findings, findings...)
		for _, f := range findings {
			result.Statistics.FindingsByType[f.Type]++
		}
		if err != nil {
			p.logger.Error("scanner failed",
				"scanner", scanner.Name(),
				"error", err,
			)
			result.Success = false
			break
		}
	}

	result.Statistics.TotalFindings = len(result.Findings)
	result.Statistics.ProcessingTime = time.Since(start).Seconds()
	return result
}

// scan isolates a single scanner run; a panicking scanner is reported as a
// failure instead of aborting the caller's request.
func (p *Pipeline) scan(scanner driven.Scanner, text string) (findings []domain.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scanner panicked: %v", r)
		}
	}()
	return scanner.Scan(text)
}

// List returns scanner names in execution order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.scanners))
	for i, s := range p.scanners {
		names[i] = s.Name()
	}
	return names
}
