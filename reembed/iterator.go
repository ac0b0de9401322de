package reembed

import (
	"context"

	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

const (
	// DefaultBatchSize is the default number of communities embedded per call
	DefaultBatchSize = 100
)

// CommunityIterator walks the community catalog in id order, in batches.
type CommunityIterator struct {
	repo      storage.CommunityRepository
	batchSize int
}

// NewCommunityIterator creates an iterator. A non-positive batchSize uses
// DefaultBatchSize.
func NewCommunityIterator(repo storage.CommunityRepository, batchSize int) *CommunityIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &CommunityIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of communities whose id sorts after the
// given id. An empty after starts from the beginning. Iteration stops on the
// first error from fn; context cancellation is checked between batches.
func (it *CommunityIterator) ForEach(ctx context.Context, after string, fn func([]*core.Community) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	all, err := it.repo.ListCommunities(ctx)
	if err != nil {
		return err
	}

	start := 0
	if after != "" {
		for start < len(all) && all[start].ID <= after {
			start++
		}
	}
	remaining := all[start:]

	for i := 0; i < len(remaining); i += it.batchSize {
		end := min(i+it.batchSize, len(remaining))
		if err := fn(remaining[i:end]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
