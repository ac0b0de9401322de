package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc computes a value on a cache miss.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Loader wraps a Cache with read-through loading. Concurrent misses on the
// same key share one call to the load function.
type Loader struct {
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLoader creates a read-through loader over c.
func NewLoader(c Cache, logger *slog.Logger) (*Loader, error) {
	if c == nil {
		return nil, ErrCacheRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cache:  c,
		logger: logger.With("component", "cache-loader"),
	}, nil
}

// Cache returns the underlying cache.
func (l *Loader) Cache() Cache {
	return l.cache
}

// Load returns the cached value for key, computing and storing it on a miss.
// hit reports whether the value came from the cache. Cache failures never fail
// a load: they are logged and the value is computed instead.
func (l *Loader) Load(ctx context.Context, ns Namespace, key string, load LoadFunc) (value []byte, hit bool, err error) {
	value, ok, err := l.cache.Get(ctx, ns, key)
	if err != nil {
		l.logger.Warn("cache read failed", "namespace", ns, "err", err)
	} else if ok {
		l.hits.Add(1)
		return value, true, nil
	}
	l.misses.Add(1)

	flight := string(ns) + "\x00" + key
	for {
		led := false
		ch := l.group.DoChan(flight, func() (any, error) {
			led = true
			fresh, err := load(ctx)
			if err != nil {
				return nil, err
			}
			if err := l.cache.Put(ctx, ns, key, fresh, 0); err != nil {
				l.logger.Warn("cache write failed", "namespace", ns, "err", err)
			}
			return fresh, nil
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case res = <-ch:
		}
		if res.Err != nil {
			// The caller that led the flight went away; our context is
			// still live, so load again.
			if !led && ctx.Err() == nil && isContextErr(res.Err) {
				l.logger.Debug("shared load cancelled, retrying", "namespace", ns)
				continue
			}
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Stats returns the number of hits and misses served so far.
func (l *Loader) Stats() (hits, misses int64) {
	return l.hits.Load(), l.misses.Load()
}
