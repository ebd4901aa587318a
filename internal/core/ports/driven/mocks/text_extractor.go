package mocks

import "context"

// MockTextExtractor is a TextExtractor for testing. By default it returns
// the upload bytes unchanged.
type MockTextExtractor struct {
	// ExtractFn overrides the default behaviour when set.
	ExtractFn func(filename string, data []byte) (string, error)
}

// NewMockTextExtractor creates a new MockTextExtractor
func NewMockTextExtractor() *MockTextExtractor {
	return &MockTextExtractor{}
}

func (m *MockTextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(filename, data)
	}
	return string(data), nil
}
