package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrCommunityRepositoryRequired is returned when no community repository is provided.
	ErrCommunityRepositoryRequired = errors.New("community repository required")

	// ErrVectorIndexRequired is returned when no vector index is provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidBatchSize is returned for a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrEmbeddingCountMismatch is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
