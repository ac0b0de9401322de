package reembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/embedding"
	"github.com/poiesic/matchmaker/storage"
)

// BatchProcessor embeds batches of communities and writes the vectors to the
// vector index, refreshing the community-vector cache as it goes.
type BatchProcessor struct {
	vectors        storage.VectorIndex
	embedder       ai.Embedder
	cache          cache.Cache
	dimensions     int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a new batch processor. c may be nil.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorIndex, embedder ai.Embedder, c cache.Cache, dimensions, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		cache:          c,
		dimensions:     dimensions,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default().With("component", "reembed-batch"),
	}
}

// Process embeds communities in one call and upserts their normalized vectors.
func (bp *BatchProcessor) Process(ctx context.Context, communities []*core.Community) error {
	if len(communities) == 0 {
		return nil
	}

	texts := make([]string, len(communities))
	for i, c := range communities {
		texts[i] = embedding.CommunityPayload(c)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return core.ErrEmbeddingUnavailable.Wrap(fmt.Errorf("after %d attempts: %w", bp.maxRetries, err))
	}
	if len(embeddings) != len(communities) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(communities), len(embeddings))
	}

	for i, c := range communities {
		if len(embeddings[i]) != bp.dimensions {
			return fmt.Errorf("community %s: %w: got %d, want %d", c.ID, storage.ErrDimensionMismatch, len(embeddings[i]), bp.dimensions)
		}
		vec, ok := embedding.Normalize(embeddings[i])
		if !ok {
			return fmt.Errorf("community %s: %w", c.ID, embedding.ErrZeroVector)
		}
		if err := bp.vectors.Upsert(ctx, c.ID, vec); err != nil {
			return core.Unavailable(core.KindVectorIndex, fmt.Errorf("upsert %s: %w", c.ID, err))
		}
		if bp.cache != nil {
			if err := bp.cache.Put(ctx, cache.CommunityVector, embedding.CommunityKey(c), storage.MarshalVector(vec), 0); err != nil {
				bp.logger.Warn("failed to refresh cached community vector", "community", c.ID, "err", err)
			}
		}
	}
	return nil
}
