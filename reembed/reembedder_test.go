package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/matchmaker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		Dimensions:     testDims,
	}
}

func TestReembedder_Run(t *testing.T) {
	store := setupTestStore(t)
	communities := seedCatalog(t, store, 10)
	embedder := newTestEmbedder()

	var buf bytes.Buffer
	r, err := NewReembedder(store.Communities(), store.Vectors(), embedder, testConfig(), &buf,
		WithCheckpoints(store.Checkpoints()))
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	ids := make([]string, len(communities))
	for i, c := range communities {
		ids[i] = c.ID
	}
	hits, err := store.Vectors().Query(context.Background(), unit(0), 20, ids)
	require.NoError(t, err)
	assert.Len(t, hits, 10, "every community has a vector")

	assert.Len(t, embedder.Texts(), 10)
	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "Reembedding complete")

	cp, err := store.Checkpoints().LoadCheckpoint(context.Background(), CheckpointName)
	require.NoError(t, err)
	assert.Nil(t, cp, "a completed run clears its checkpoint")
}

func TestReembedder_EmptyCatalog(t *testing.T) {
	store := setupTestStore(t)
	embedder := newTestEmbedder()

	var buf bytes.Buffer
	r, err := NewReembedder(store.Communities(), store.Vectors(), embedder, testConfig(), &buf)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "0 communities")
	assert.Equal(t, 0, embedder.CallCount())
}

func TestReembedder_ResumesFromCheckpoint(t *testing.T) {
	store := setupTestStore(t)
	seedCatalog(t, store, 9)
	ctx := context.Background()

	embedder := newTestEmbedder()
	var batches int
	failing := errors.New("model crashed")
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		batches++
		if batches == 2 {
			return nil, failing
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = unit(i)
		}
		return out, nil
	}

	cfg := testConfig()
	cfg.MaxRetries = 1
	r, err := NewReembedder(store.Communities(), store.Vectors(), embedder, cfg, nil, WithCheckpoints(store.Checkpoints()))
	require.NoError(t, err)
	err = r.Run(ctx)
	require.ErrorIs(t, err, failing)

	cp, err := store.Checkpoints().LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, "c02", cp.LastID)
	assert.Equal(t, 3, cp.Processed)

	var texts []string
	embedder.EmbedTextsFunc = func(_ context.Context, in []string) ([][]float32, error) {
		texts = append(texts, in...)
		out := make([][]float32, len(in))
		for i := range in {
			out[i] = unit(i)
		}
		return out, nil
	}
	var buf bytes.Buffer
	r, err = NewReembedder(store.Communities(), store.Vectors(), embedder, cfg, &buf, WithCheckpoints(store.Checkpoints()))
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	assert.Len(t, texts, 6, "only the communities after the checkpoint are embedded")
	assert.Contains(t, buf.String(), "Resuming after c02")
	assert.Contains(t, buf.String(), "9/9")
}

func TestReembedder_WithoutCheckpointsStartsOver(t *testing.T) {
	store := setupTestStore(t)
	seedCatalog(t, store, 4)
	ctx := context.Background()
	require.NoError(t, store.Checkpoints().SaveCheckpoint(ctx, &core.Checkpoint{Name: CheckpointName, LastID: "c01", Processed: 2}))

	embedder := newTestEmbedder()
	r, err := NewReembedder(store.Communities(), store.Vectors(), embedder, testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))
	assert.Len(t, embedder.Texts(), 4)
}

func TestNewReembedder_Validation(t *testing.T) {
	store := setupTestStore(t)
	embedder := newTestEmbedder()

	_, err := NewReembedder(nil, store.Vectors(), embedder, nil, nil)
	assert.ErrorIs(t, err, ErrCommunityRepositoryRequired)

	_, err = NewReembedder(store.Communities(), nil, embedder, nil, nil)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewReembedder(store.Communities(), store.Vectors(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewReembedder(store.Communities(), store.Vectors(), embedder, &Config{BatchSize: 0, MaxRetries: 1, Dimensions: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	r, err := NewReembedder(store.Communities(), store.Vectors(), embedder, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.config)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxAttempts)

	cfg = DefaultConfig()
	cfg.Dimensions = 0
	assert.Error(t, cfg.Validate())
}
