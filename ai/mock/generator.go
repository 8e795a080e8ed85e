package mock

import (
	"context"

	"github.com/openclass/tutorbot/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, echoes the last user turn.
	GenerateFunc func(ctx context.Context, system string, turns []core.ConversationTurn) (string, error)

	callCount  int
	lastSystem string
}

// NewMockGenerator creates a mock generator with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns the injected response, or echoes the last user turn.
func (m *MockGenerator) Generate(ctx context.Context, system string, turns []core.ConversationTurn) (string, error) {
	m.callCount++
	m.lastSystem = system

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, turns)
	}

	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == core.RoleUser {
			return turns[i].Text, nil
		}
	}
	return "", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastSystem returns the system contract passed to the most recent call.
func (m *MockGenerator) LastSystem() string {
	return m.lastSystem
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastSystem = ""
	m.GenerateFunc = nil
}
