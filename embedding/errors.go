package embedding

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCacheRequired is returned when a cache loader is not provided.
	ErrCacheRequired = errors.New("cache loader required")

	// ErrInvalidDimensions is returned for a non-positive vector size.
	ErrInvalidDimensions = errors.New("dimensions must be positive")

	// ErrZeroVector is returned when the embedder produces a zero or non-finite vector.
	ErrZeroVector = errors.New("embedding has zero length")

	errUnusableEntry = errors.New("unusable cached vector")
)
