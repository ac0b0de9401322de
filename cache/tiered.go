package cache

import (
	"context"
	"log/slog"
	"time"
)

// Tiered reads through an in-process tier to a persistent backing store,
// backfilling the first tier on second-tier hits. Writes go to both.
type Tiered struct {
	l1     *Memory
	l2     Backing
	logger *slog.Logger
}

var _ Cache = (*Tiered)(nil)

// TieredOption configures a Tiered cache.
type TieredOption func(*Tiered) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) TieredOption {
	return func(t *Tiered) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger.With("component", "cache")
		return nil
	}
}

// WithMemory replaces the default in-process tier.
func WithMemory(m *Memory) TieredOption {
	return func(t *Tiered) error {
		if m != nil {
			t.l1 = m
		}
		return nil
	}
}

// NewTiered creates a two-tier cache over the given backing store.
func NewTiered(l2 Backing, opts ...TieredOption) (*Tiered, error) {
	if l2 == nil {
		return nil, ErrBackingRequired
	}
	t := &Tiered{
		l1:     NewMemory(DefaultMemorySize),
		l2:     l2,
		logger: slog.Default().With("component", "cache"),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Get implements Cache. Second-tier read errors are logged and reported as misses.
func (t *Tiered) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error) {
	value, ok, err := t.l1.Get(ctx, ns, key)
	if err != nil || ok {
		return value, ok, err
	}

	value, ok, err = t.l2.Get(ctx, string(ns), key)
	if err != nil {
		t.logger.Warn("backing cache read failed", "namespace", ns, "err", err)
		return nil, false, nil
	}
	if !ok {
		return nil, false, nil
	}

	// Backfill with the namespace default; the backing entry's own
	// expiry is not visible here.
	if err := t.l1.Put(ctx, ns, key, value, 0); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put implements Cache.
func (t *Tiered) Put(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	ttl, err := effectiveTTL(ns, ttl)
	if err != nil {
		return err
	}
	if err := t.l1.Put(ctx, ns, key, value, ttl); err != nil {
		return err
	}
	return t.l2.Put(ctx, string(ns), key, value, ttl)
}

// Invalidate implements Cache.
func (t *Tiered) Invalidate(ctx context.Context, ns Namespace, key string) error {
	if err := t.l1.Invalidate(ctx, ns, key); err != nil {
		return err
	}
	return t.l2.Invalidate(ctx, string(ns), key)
}
