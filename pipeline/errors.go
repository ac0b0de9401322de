package pipeline

import "errors"

var (
	// ErrStoreRequired is returned when a required repository is missing.
	ErrStoreRequired = errors.New("repository required")

	// ErrCacheRequired is returned when no cache is provided.
	ErrCacheRequired = errors.New("cache required")

	// ErrAIProviderRequired is returned when no AI provider is provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrPublisherRequired is returned when no event publisher is provided.
	ErrPublisherRequired = errors.New("publisher required")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("orchestrator closed")

	// ErrInputLost is stored on tasks that cannot be resumed because their
	// raw profile was never sanitized before a restart.
	ErrInputLost = errors.New("profile input lost before sanitization; resubmit")
)
