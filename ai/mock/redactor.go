package mock

import (
	"context"
	"regexp"
	"sync"

	"github.com/poiesic/matchmaker/ai"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
)

// MockRedactor is a test double for ai.Redactor.
// By default it replaces emails and phone numbers with placeholders.
type MockRedactor struct {
	// RedactFunc is called by Redact if set.
	RedactFunc func(ctx context.Context, text string) (*ai.Redaction, error)

	mu        sync.Mutex
	callCount int
}

// NewMockRedactor creates a mock redactor with default pattern-based behavior.
func NewMockRedactor() *MockRedactor {
	return &MockRedactor{}
}

// Redact removes emails and phone numbers from text.
func (m *MockRedactor) Redact(ctx context.Context, text string) (*ai.Redaction, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.RedactFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}

	result := &ai.Redaction{PIIRemoved: []string{}}
	if emailPattern.MatchString(text) {
		text = emailPattern.ReplaceAllString(text, "[email]")
		result.PIIRemoved = append(result.PIIRemoved, "email")
	}
	if phonePattern.MatchString(text) {
		text = phonePattern.ReplaceAllString(text, "[phone]")
		result.PIIRemoved = append(result.PIIRemoved, "phone")
	}
	result.Text = text
	return result, nil
}

// CallCount returns the number of times Redact was called.
func (m *MockRedactor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRedactor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.RedactFunc = nil
}
