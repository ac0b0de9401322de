// Package mock provides test double implementations of the ai interfaces.
//
// The mocks let tests run without a language-model service and make
// behavior deterministic.
//
// # Usage in Tests
//
//	provider := mock.NewMockProviderWithServices(nil, nil, nil, nil)
//	provider.GetMockSafetyScorer().Score = 0.9 // force a safety downgrade
//
//	// Custom behavior injection
//	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return mock.VectorWithSimilarity(1536, 0.90, 1), nil
//	}
//
//	// Check call counts
//	count := provider.GetMockRedactor().CallCount()
//
// # Default Behavior
//
//   - MockRedactor: replaces emails and phone numbers with placeholders
//   - MockEmbedder: returns deterministic unit vectors based on a text hash
//   - MockComposer: returns a short welcome naming the first "@member" document
//   - MockSafetyScorer: rates every text 0.05
//
// All mocks are safe for concurrent use.
package mock
