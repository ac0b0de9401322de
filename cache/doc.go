// Package cache provides the namespaced, TTL-bounded cache shared by the
// sanitizer, embedder and search engine.
//
// Each namespace has a fixed lifetime:
//
//	user-vector       7 days
//	community-vector  24 hours
//	query-result      15 minutes
//	sanitized-bio     7 days
//
// Memory is an in-process tier built on expiring LRUs. Tiered layers it over a
// persistent Backing such as badger.CacheStore. Loader adds read-through
// loading with coalescing of concurrent misses.
package cache
