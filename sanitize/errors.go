package sanitize

import "errors"

var (
	// ErrRedactorRequired is returned when a redactor is not provided.
	ErrRedactorRequired = errors.New("redactor required")

	// ErrCacheRequired is returned when a cache loader is not provided.
	ErrCacheRequired = errors.New("cache loader required")

	// ErrProfileRepositoryRequired is returned when a profile repository is not provided.
	ErrProfileRepositoryRequired = errors.New("profile repository required")
)
