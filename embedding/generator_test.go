package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/matchmaker/ai/mock"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, opts ...Option) (*Generator, *mock.MockEmbedder, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory(64)
	loader, err := cache.NewLoader(mem, nil)
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()
	g, err := NewGenerator(embedder, loader, opts...)
	require.NoError(t, err)
	return g, embedder, mem
}

func length(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNewGenerator_RequiresDependencies(t *testing.T) {
	loader, _ := cache.NewLoader(cache.NewMemory(1), nil)
	_, err := NewGenerator(nil, loader)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
	_, err = NewGenerator(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrCacheRequired)
	_, err = NewGenerator(mock.NewMockEmbedder(), loader, WithDimensions(0))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestEmbedProfile(t *testing.T) {
	g, embedder, mem := newGenerator(t)
	ctx := context.Background()

	vec, err := g.EmbedProfile(ctx, "I run trails at dawn.", []string{"running", "outdoors"})
	require.NoError(t, err)
	assert.Len(t, vec, core.VectorDimensions)
	assert.InDelta(t, 1.0, length(vec), 1e-5)
	assert.Equal(t, []string{"I run trails at dawn.\nInterests: running, outdoors"}, embedder.Texts())

	again, err := g.EmbedProfile(ctx, "I run trails at dawn.", []string{"running", "outdoors"})
	require.NoError(t, err)
	assert.Equal(t, vec, again, "cache hit yields the same vector")
	assert.Equal(t, 1, embedder.CallCount())
	assert.Equal(t, 1, mem.Len(cache.UserVector))

	_, err = g.EmbedProfile(ctx, "I run trails at dawn.", []string{"running"})
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.CallCount(), "different tags are a different key")
}

func TestEmbedProfile_NormalizesVectors(t *testing.T) {
	g, embedder, _ := newGenerator(t, WithDimensions(3))
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return []float32{3, 0, 4}, nil
	}
	vec, err := g.EmbedProfile(context.Background(), "bio", nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0, 0.8}, vec, 1e-6)
}

func TestEmbedProfile_Failures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, string) ([]float32, error)
	}{
		{"collaborator error", func(context.Context, string) ([]float32, error) { return nil, errors.New("503") }},
		{"wrong dimensions", func(context.Context, string) ([]float32, error) { return []float32{1, 2}, nil }},
		{"zero vector", func(context.Context, string) ([]float32, error) { return make([]float32, core.VectorDimensions), nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, embedder, mem := newGenerator(t)
			embedder.EmbedTextFunc = tt.fn

			_, err := g.EmbedProfile(context.Background(), "bio", []string{"x"})
			assert.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
			assert.ErrorIs(t, err, core.ErrCollaboratorUnavailable)
			assert.Equal(t, 0, mem.Len(cache.UserVector))
		})
	}
}

func TestEmbedProfile_StaleCacheEntry(t *testing.T) {
	g, embedder, mem := newGenerator(t)
	ctx := context.Background()
	key := core.ProfileVectorKey("bio", nil)
	require.NoError(t, mem.Put(ctx, cache.UserVector, key, storage.MarshalVector([]float32{1}), 0))

	vec, err := g.EmbedProfile(ctx, "bio", nil)
	require.NoError(t, err)
	assert.Len(t, vec, core.VectorDimensions)
	assert.Equal(t, 1, embedder.CallCount())

	vec, err = g.EmbedProfile(ctx, "bio", nil)
	require.NoError(t, err)
	assert.Len(t, vec, core.VectorDimensions)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestEmbedProfile_CorruptCacheEntry(t *testing.T) {
	g, embedder, mem := newGenerator(t)
	ctx := context.Background()
	key := core.ProfileVectorKey("bio", nil)
	require.NoError(t, mem.Put(ctx, cache.UserVector, key, []byte{0xff}, 0))

	vec, err := g.EmbedProfile(ctx, "bio", nil)
	require.NoError(t, err)
	assert.Len(t, vec, core.VectorDimensions)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestEmbedCommunities_Batch(t *testing.T) {
	g, embedder, _ := newGenerator(t)
	ctx := context.Background()
	communities := []*core.Community{
		{ID: "comm_001", Name: "Trail Runners", Category: "fitness", Description: "Dawn runs"},
		{ID: "comm_002", Name: "Chess Club", Category: "games"},
	}

	first, err := g.EmbedCommunity(ctx, communities[0])
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	vectors, err := g.EmbedCommunities(ctx, communities)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, first, vectors[0], "cached community vector is reused")
	assert.Equal(t, 2, embedder.CallCount(), "only the miss is embedded")
	assert.Equal(t, "Chess Club\nCategory: games", embedder.Texts()[1])

	_, err = g.EmbedCommunities(ctx, communities)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.CallCount(), "everything cached now")
}

func TestEmbedCommunities_Failure(t *testing.T) {
	g, embedder, _ := newGenerator(t)
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("connection reset")
	}
	_, err := g.EmbedCommunities(context.Background(), []*core.Community{{ID: "c", Name: "C"}})
	assert.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
}

func TestNormalize(t *testing.T) {
	out, ok := Normalize([]float32{0, 0})
	assert.False(t, ok)
	assert.Nil(t, out)

	in := []float32{1, 1}
	out, ok = Normalize(in)
	require.True(t, ok)
	assert.InDelta(t, 1/math.Sqrt2, out[0], 1e-6)
	assert.Equal(t, float32(1), in[0], "input is not modified")
}
