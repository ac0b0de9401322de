package cache

import (
	"context"
	"time"
)

// Namespace partitions cache entries by kind. Each namespace has its own TTL.
type Namespace string

const (
	UserVector      Namespace = "user-vector"
	CommunityVector Namespace = "community-vector"
	QueryResult     Namespace = "query-result"
	SanitizedBio    Namespace = "sanitized-bio"
)

// ttlPolicy is the default lifetime of entries in each namespace.
var ttlPolicy = map[Namespace]time.Duration{
	UserVector:      7 * 24 * time.Hour,
	CommunityVector: 24 * time.Hour,
	QueryResult:     15 * time.Minute,
	SanitizedBio:    7 * 24 * time.Hour,
}

// Namespaces returns every known namespace.
func Namespaces() []Namespace {
	return []Namespace{UserVector, CommunityVector, QueryResult, SanitizedBio}
}

// TTL returns the default lifetime for ns, or false if ns is unknown.
func (ns Namespace) TTL() (time.Duration, bool) {
	ttl, ok := ttlPolicy[ns]
	return ttl, ok
}

// Cache is a shared key-value cache. A hit is an optimization only:
// callers must treat cached values as equivalent to freshly computed ones.
type Cache interface {
	// Get returns the value for key, or ok=false on a miss.
	Get(ctx context.Context, ns Namespace, key string) (value []byte, ok bool, err error)

	// Put stores value under key. A zero ttl uses the namespace default.
	// A ttl longer than the namespace default is capped to it.
	Put(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error

	// Invalidate removes key. Missing keys are not an error.
	Invalidate(ctx context.Context, ns Namespace, key string) error
}

// Backing is a persistent second tier, such as badger.CacheStore.
type Backing interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, namespace, key string) error
}

// effectiveTTL resolves the ttl for a write into ns.
func effectiveTTL(ns Namespace, ttl time.Duration) (time.Duration, error) {
	def, ok := ns.TTL()
	if !ok {
		return 0, &UnknownNamespaceError{Namespace: ns}
	}
	if ttl <= 0 || ttl > def {
		return def, nil
	}
	return ttl, nil
}
