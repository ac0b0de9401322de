package mock

import (
	"context"
	"sync"
)

// MockSafetyScorer is a test double for ai.SafetyScorer.
type MockSafetyScorer struct {
	// SafetyScoreFunc is called by SafetyScore if set.
	// If nil, every text scores Score.
	SafetyScoreFunc func(ctx context.Context, text string) (float64, error)

	// Score is the default toxicity returned. Default: 0.05
	Score float64

	mu        sync.Mutex
	callCount int
}

// NewMockSafetyScorer creates a mock scorer that rates everything as safe.
func NewMockSafetyScorer() *MockSafetyScorer {
	return &MockSafetyScorer{Score: 0.05}
}

// SafetyScore returns the configured toxicity score.
func (m *MockSafetyScorer) SafetyScore(ctx context.Context, text string) (float64, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.SafetyScoreFunc
	score := m.Score
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return score, nil
}

// CallCount returns the number of times SafetyScore was called.
func (m *MockSafetyScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSafetyScorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.Score = 0.05
	m.SafetyScoreFunc = nil
}
