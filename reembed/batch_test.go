package reembed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/embedding"
	"github.com/poiesic/matchmaker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestBatchProcessor_UpsertsNormalizedVectors(t *testing.T) {
	store := setupTestStore(t)
	communities := seedCatalog(t, store, 3)
	embedder := newTestEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			v := make([]float32, testDims)
			v[i] = 3 // not unit length
			out[i] = v
		}
		return out, nil
	}
	mem := cache.NewMemory(0)

	bp := NewBatchProcessor(store.Vectors(), embedder, mem, testDims, 2, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), communities))

	for i, c := range communities {
		hits, err := store.Vectors().Query(context.Background(), unit(i), 1, []string{c.ID})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)

		data, ok, err := mem.Get(context.Background(), cache.CommunityVector, embedding.CommunityKey(c))
		require.NoError(t, err)
		require.True(t, ok, "cache refreshed for %s", c.ID)
		vec, err := storage.UnmarshalVector(data)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, vectorNorm(vec), 1e-6)
	}
	assert.Equal(t, 1, embedder.CallCount(), "one call per batch")
}

func unit(axis int) []float32 {
	v := make([]float32, testDims)
	v[axis] = 1
	return v
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	embedder := newTestEmbedder()
	bp := NewBatchProcessor(nil, embedder, nil, testDims, 1, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), nil))
	assert.Equal(t, 0, embedder.CallCount())
}

func TestBatchProcessor_RetriesTransientFailures(t *testing.T) {
	store := setupTestStore(t)
	communities := seedCatalog(t, store, 2)
	embedder := newTestEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return nil, ai.ErrTransient
		}
		return [][]float32{unit(0), unit(1)}, nil
	}

	bp := NewBatchProcessor(store.Vectors(), embedder, nil, testDims, 3, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), communities))
	assert.Equal(t, 2, calls)
}

func TestBatchProcessor_Failures(t *testing.T) {
	tests := []struct {
		name   string
		embed  func(context.Context, []string) ([][]float32, error)
		target error
	}{
		{
			name:   "embedder down",
			embed:  func(context.Context, []string) ([][]float32, error) { return nil, errors.New("connection refused") },
			target: core.ErrCollaboratorUnavailable,
		},
		{
			name:   "count mismatch",
			embed:  func(context.Context, []string) ([][]float32, error) { return [][]float32{unit(0)}, nil },
			target: ErrEmbeddingCountMismatch,
		},
		{
			name: "wrong dimensions",
			embed: func(_ context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1, 0}, {0, 1}}, nil
			},
			target: storage.ErrDimensionMismatch,
		},
		{
			name: "zero vector",
			embed: func(_ context.Context, texts []string) ([][]float32, error) {
				return [][]float32{make([]float32, testDims), unit(1)}, nil
			},
			target: embedding.ErrZeroVector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			communities := seedCatalog(t, store, 2)
			embedder := newTestEmbedder()
			embedder.EmbedTextsFunc = tt.embed

			bp := NewBatchProcessor(store.Vectors(), embedder, nil, testDims, 2, time.Millisecond)
			assert.ErrorIs(t, bp.Process(context.Background(), communities), tt.target)
		})
	}
}
