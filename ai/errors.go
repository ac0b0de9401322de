package ai

import "errors"

var (
	// ErrMalformedResponse is returned when a model response cannot be parsed.
	// Malformed responses are never retried by Guard.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyResponse is returned when a model response carries no content.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrTransient marks an error as safe to retry.
	ErrTransient = errors.New("transient model error")

	// ErrProviderRequired is returned when a provider is not supplied.
	ErrProviderRequired = errors.New("AI provider required")
)
