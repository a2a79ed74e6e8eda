package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/inception-api/internal/generation"
)

// MockTextGenerator implements generation.TextGenerator for testing
type MockTextGenerator struct {
	// GenerateTextFn allows test cases to mock the GenerateText behavior
	GenerateTextFn func(ctx context.Context, prompt generation.Prompt) (string, error)

	// Default response values
	Text string
	Err  error

	mu      sync.Mutex
	prompts []generation.Prompt
}

var _ generation.TextGenerator = (*MockTextGenerator)(nil)

// GenerateText implements the generation.TextGenerator interface
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt generation.Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, prompt)
	}
	return m.Text, m.Err
}

// CallCount returns how many times GenerateText was called.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns the prompts received so far, oldest first.
func (m *MockTextGenerator) Prompts() []generation.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Prompt(nil), m.prompts...)
}

// LastPrompt returns the most recent prompt, or the zero Prompt.
func (m *MockTextGenerator) LastPrompt() generation.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return generation.Prompt{}
	}
	return m.prompts[len(m.prompts)-1]
}

// NewMockTextGeneratorWithText creates a MockTextGenerator that answers with text
func NewMockTextGeneratorWithText(text string) *MockTextGenerator {
	return &MockTextGenerator{Text: text}
}

// NewMockTextGeneratorWithError creates a MockTextGenerator that fails with err
func NewMockTextGeneratorWithError(err error) *MockTextGenerator {
	return &MockTextGenerator{Err: err}
}
