package scanners

import (
	"regexp"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Scanner = (*RegexScanner)(nil)

const (
	emailPattern = `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`

	// US SSN shaped sequences, with or without separators.
	ssnPattern = `\b\d{3}-?\d{2}-?\d{4}\b`
)

// RegexScanner detects one category of sensitive data with a precompiled
// pattern. It is stateless apart from the pattern and safe for concurrent
// use.
type RegexScanner struct {
	name string
	re   *regexp.Regexp
}

// NewRegexScanner compiles pattern into a scanner tagging findings with name.
func NewRegexScanner(name, pattern string) (*RegexScanner, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexScanner{name: name, re: re}, nil
}

// NewEmailScanner returns a scanner for email addresses.
func NewEmailScanner() *RegexScanner {
	return &RegexScanner{name: domain.FindingTypeEmail, re: regexp.MustCompile(emailPattern)}
}

// NewSSNScanner returns a scanner for US Social Security Number shaped
// sequences.
func NewSSNScanner() *RegexScanner {
	return &RegexScanner{name: domain.FindingTypeSSN, re: regexp.MustCompile(ssnPattern)}
}

// Name returns the finding type tag this scanner produces.
func (s *RegexScanner) Name() string {
	return s.name
}

// Scan returns matches in left-to-right text order. Offsets are byte
// offsets, start inclusive, end exclusive.
func (s *RegexScanner) Scan(text string) ([]domain.Finding, error) {
	indexes := s.re.FindAllStringIndex(text, -1)
	findings := make([]domain.Finding, 0, len(indexes))
	for _, m := range indexes {
		findings = append(findings, domain.Finding{
			Type:  s.name,
			Value: text[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
		})
	}
	return findings, nil
}
