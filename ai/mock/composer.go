package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockComposer is a test double for ai.Composer.
type MockComposer struct {
	// ComposeFunc is called by Compose if set.
	// If nil, returns a fixed two-sentence welcome that names the first
	// context document starting with "@".
	ComposeFunc func(ctx context.Context, prompt string, contextDocs []string) (string, error)

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewMockComposer creates a mock composer with default behavior.
func NewMockComposer() *MockComposer {
	return &MockComposer{}
}

// Compose returns a canned introduction.
func (m *MockComposer) Compose(ctx context.Context, prompt string, contextDocs []string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	fn := m.ComposeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, contextDocs)
	}

	for _, doc := range contextDocs {
		if strings.HasPrefix(doc, "@") {
			handle := strings.Fields(doc)[0]
			return fmt.Sprintf("Please welcome our newest member! %s, you two should meet.", handle), nil
		}
	}
	return "Please welcome our newest member! Say hello when you get a chance.", nil
}

// CallCount returns the number of times Compose was called.
func (m *MockComposer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns the prompts received, in call order.
func (m *MockComposer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears the call count and injected behavior.
func (m *MockComposer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.ComposeFunc = nil
}
