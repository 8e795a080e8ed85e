package mock

import (
	"context"

	"github.com/openclass/tutorbot/core"
)

// MockAnswerExtractor is a test double for ai.AnswerExtractor.
// It allows custom behavior injection via function fields.
type MockAnswerExtractor struct {
	// ExtractAnswerFunc is called by ExtractAnswer if set.
	// If nil, returns the input text as an answer-only record.
	ExtractAnswerFunc func(ctx context.Context, text string) (*core.StructuredAnswer, error)

	callCount int
}

// NewMockAnswerExtractor creates a mock answer extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockAnswerExtractor() *MockAnswerExtractor {
	return &MockAnswerExtractor{}
}

// ExtractAnswer returns the injected record, or the text as an answer-only record.
func (m *MockAnswerExtractor) ExtractAnswer(ctx context.Context, text string) (*core.StructuredAnswer, error) {
	m.callCount++

	if m.ExtractAnswerFunc != nil {
		return m.ExtractAnswerFunc(ctx, text)
	}

	return &core.StructuredAnswer{Answer: text}, nil
}

// CallCount returns the number of times ExtractAnswer was called.
func (m *MockAnswerExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerExtractor) Reset() {
	m.callCount = 0
	m.ExtractAnswerFunc = nil
}
