package ai

import "context"

// Redaction is the result of removing personally identifying content from text.
type Redaction struct {
	// Text is the input with PII removed or replaced by placeholders.
	Text string

	// PIIRemoved lists the PII classes found, e.g. "email", "phone".
	// Empty when nothing was removed.
	PIIRemoved []string
}

// Redactor removes personally identifying information from free text.
// Implementations must be thread-safe for concurrent use.
type Redactor interface {
	// Redact returns text with the classes in PIIClasses removed.
	// Returns ErrMalformedResponse or ErrEmptyResponse if the service
	// answered with something unusable; callers must never fall back to the
	// unredacted input.
	Redact(ctx context.Context, text string) (*Redaction, error)
}

// Embedder generates vector embeddings from text for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Composer generates short free text from an instruction and supporting context.
type Composer interface {
	// Compose returns text following prompt, grounded on contextDocs.
	Compose(ctx context.Context, prompt string, contextDocs []string) (string, error)
}

// SafetyScorer rates generated text for toxicity.
type SafetyScorer interface {
	// SafetyScore returns a toxicity score in [0, 1]; higher is less safe.
	SafetyScore(ctx context.Context, text string) (float64, error)
}

// AIProvider aggregates the language-model services used by the pipeline.
type AIProvider interface {
	Redactor() Redactor
	Embedder() Embedder
	Composer() Composer
	SafetyScorer() SafetyScorer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
