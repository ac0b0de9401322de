package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize is the per-namespace entry limit of the in-process tier.
const DefaultMemorySize = 4096

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process cache with one expiring LRU per namespace.
// The LRU bounds entries to the namespace TTL; shorter per-entry TTLs are
// checked on read.
type Memory struct {
	spaces map[Namespace]*expirable.LRU[string, memoryEntry]
	now    func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory creates an in-process cache holding up to size entries per namespace.
// A non-positive size uses DefaultMemorySize.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	m := &Memory{
		spaces: make(map[Namespace]*expirable.LRU[string, memoryEntry], len(ttlPolicy)),
		now:    time.Now,
	}
	for ns, ttl := range ttlPolicy {
		m.spaces[ns] = expirable.NewLRU[string, memoryEntry](size, nil, ttl)
	}
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, ns Namespace, key string) ([]byte, bool, error) {
	lru, ok := m.spaces[ns]
	if !ok {
		return nil, false, &UnknownNamespaceError{Namespace: ns}
	}
	entry, ok := lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		lru.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Put implements Cache. The value is copied.
func (m *Memory) Put(_ context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	ttl, err := effectiveTTL(ns, ttl)
	if err != nil {
		return err
	}
	m.spaces[ns].Add(key, memoryEntry{
		value:     bytes.Clone(value),
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

// Invalidate implements Cache.
func (m *Memory) Invalidate(_ context.Context, ns Namespace, key string) error {
	lru, ok := m.spaces[ns]
	if !ok {
		return &UnknownNamespaceError{Namespace: ns}
	}
	lru.Remove(key)
	return nil
}

// Len returns the number of live entries in ns.
func (m *Memory) Len(ns Namespace) int {
	lru, ok := m.spaces[ns]
	if !ok {
		return 0
	}
	return lru.Len()
}
