// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import "github.com/poiesic/matchmaker/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates one mock of each language-model service.
type MockProvider struct {
	redactor *MockRedactor
	embedder *MockEmbedder
	composer *MockComposer
	scorer   *MockSafetyScorer
	closed   bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMock* methods to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockRedactor(), NewMockEmbedder(), NewMockComposer(), NewMockSafetyScorer())
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil services are replaced with defaults.
func NewMockProviderWithServices(redactor *MockRedactor, embedder *MockEmbedder, composer *MockComposer, scorer *MockSafetyScorer) *MockProvider {
	if redactor == nil {
		redactor = NewMockRedactor()
	}
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if composer == nil {
		composer = NewMockComposer()
	}
	if scorer == nil {
		scorer = NewMockSafetyScorer()
	}
	return &MockProvider{
		redactor: redactor,
		embedder: embedder,
		composer: composer,
		scorer:   scorer,
	}
}

func (p *MockProvider) Redactor() ai.Redactor         { return p.redactor }
func (p *MockProvider) Embedder() ai.Embedder         { return p.embedder }
func (p *MockProvider) Composer() ai.Composer         { return p.composer }
func (p *MockProvider) SafetyScorer() ai.SafetyScorer { return p.scorer }

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockRedactor returns the underlying mock redactor for test assertions.
func (p *MockProvider) GetMockRedactor() *MockRedactor {
	return p.redactor
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockComposer returns the underlying mock composer for test assertions.
func (p *MockProvider) GetMockComposer() *MockComposer {
	return p.composer
}

// GetMockSafetyScorer returns the underlying mock scorer for test assertions.
func (p *MockProvider) GetMockSafetyScorer() *MockSafetyScorer {
	return p.scorer
}
