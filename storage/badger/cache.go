package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// CacheStore keeps cache entries in BadgerDB using native entry TTLs.
// Expired entries are invisible to reads and reclaimed by compaction.
type CacheStore struct {
	backend *Backend
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(backend *Backend) *CacheStore {
	return &CacheStore{backend: backend}
}

// Get returns the cached value, or ok=false on a miss or expired entry.
func (c *CacheStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var value []byte
	err := c.backend.View(func(tx *badger.Txn) error {
		var err error
		value, err = readValue(tx, makeCacheKey(namespace, key))
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Put stores value with the given ttl. A non-positive ttl stores without expiry.
func (c *CacheStore) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	entry := badger.NewEntry(makeCacheKey(namespace, key), value)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return c.backend.Update(func(tx *badger.Txn) error {
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Invalidate removes an entry. Missing entries are not an error.
func (c *CacheStore) Invalidate(ctx context.Context, namespace, key string) error {
	return c.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCacheKey(namespace, key)); err != nil {
			return err
		}
		return tx.Commit()
	})
}
