package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNamespace is returned for namespaces outside the TTL policy.
	ErrUnknownNamespace = errors.New("unknown cache namespace")

	// ErrBackingRequired is returned when a tiered cache has no second tier.
	ErrBackingRequired = errors.New("cache backing store required")

	// ErrCacheRequired is returned when a loader is created without a cache.
	ErrCacheRequired = errors.New("cache required")
)

// UnknownNamespaceError names the rejected namespace.
type UnknownNamespaceError struct {
	Namespace Namespace
}

func (e *UnknownNamespaceError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownNamespace, string(e.Namespace))
}

func (e *UnknownNamespaceError) Unwrap() error {
	return ErrUnknownNamespace
}
