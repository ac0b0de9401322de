// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// CheckpointName names the checkpoint a community re-embedding run keeps.
const CheckpointName = "reembed-communities"

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of communities embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of communities)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Dimensions is the vector size the embedder must produce
	Dimensions int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Dimensions:     core.VectorDimensions,
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d", c.Dimensions)
	}
	return nil
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithCheckpoints makes runs resumable through repo.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(r *Reembedder) error {
		r.checkpoints = repo
		return nil
	}
}

// WithCache refreshes the community-vector cache with each new vector.
func WithCache(c cache.Cache) Option {
	return func(r *Reembedder) error {
		r.cache = c
		return nil
	}
}

// WithLogger sets a custom logger. If nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// Reembedder recomputes the vector of every community in the catalog.
type Reembedder struct {
	communities storage.CommunityRepository
	vectors     storage.VectorIndex
	embedder    ai.Embedder
	checkpoints storage.CheckpointRepository
	cache       cache.Cache
	config      *Config
	progress    io.Writer
	logger      *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(communities storage.CommunityRepository, vectors storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) (*Reembedder, error) {
	if communities == nil {
		return nil, ErrCommunityRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	r := &Reembedder{
		communities: communities,
		vectors:     vectors,
		embedder:    embedder,
		config:      config,
		progress:    progress,
		logger:      slog.Default().With("component", "reembedder"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run re-embeds every community. With checkpoints configured, a run that
// previously failed resumes after the last community it completed, and a
// successful run clears the checkpoint.
func (r *Reembedder) Run(ctx context.Context) error {
	all, err := r.communities.ListCommunities(ctx)
	if err != nil {
		return fmt.Errorf("failed to list communities: %w", err)
	}
	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No communities found (0 communities)\n")
		return nil
	}

	checkpoint, err := r.loadCheckpoint(ctx)
	if err != nil {
		return err
	}
	if checkpoint.LastID != "" {
		r.logger.Info("resuming from checkpoint", "last_id", checkpoint.LastID, "processed", checkpoint.Processed)
		fmt.Fprintf(r.progress, "Resuming after %s (%d already processed)\n", checkpoint.LastID, checkpoint.Processed)
	}
	fmt.Fprintf(r.progress, "Starting reembedding of %d communities (batch size: %d)\n", total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.StartAt(checkpoint.Processed)

	processor := NewBatchProcessor(r.vectors, r.embedder, r.cache, r.config.Dimensions, r.config.MaxRetries, r.config.RetryDelay)
	iterator := NewCommunityIterator(r.communities, r.config.BatchSize)

	err = iterator.ForEach(ctx, checkpoint.LastID, func(batch []*core.Community) error {
		if err := processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch starting at %s: %w", batch[0].ID, err)
		}
		checkpoint.LastID = batch[len(batch)-1].ID
		checkpoint.Processed += len(batch)
		tracker.Update(checkpoint.Processed)
		return r.saveCheckpoint(ctx, checkpoint)
	})
	if err != nil {
		fmt.Fprintln(r.progress)
		return err
	}

	tracker.Finish()
	if r.checkpoints != nil {
		if err := r.checkpoints.ClearCheckpoint(ctx, CheckpointName); err != nil {
			return fmt.Errorf("failed to clear checkpoint: %w", err)
		}
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d communities in %v\n", total, elapsed.Round(time.Millisecond))
	r.logger.Info("reembedding complete", "communities", total, "elapsed", elapsed)
	return nil
}

func (r *Reembedder) loadCheckpoint(ctx context.Context) (*core.Checkpoint, error) {
	if r.checkpoints == nil {
		return &core.Checkpoint{Name: CheckpointName}, nil
	}
	cp, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cp == nil {
		cp = &core.Checkpoint{Name: CheckpointName}
	}
	return cp, nil
}

func (r *Reembedder) saveCheckpoint(ctx context.Context, cp *core.Checkpoint) error {
	if r.checkpoints == nil {
		return nil
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
