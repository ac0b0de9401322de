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

package pipeline

import (
	"errors"
	"runtime"
	"time"

	"github.com/poiesic/matchmaker/decision"
	"github.com/poiesic/matchmaker/intro"
	"github.com/poiesic/matchmaker/search"
)

// Config holds the orchestrator settings.
type Config struct {
	// PoolSize is the number of tasks processed concurrently.
	// Default: runtime.NumCPU()
	PoolSize int

	// QueueSize bounds the number of accepted tasks waiting for a worker.
	// Submissions beyond it fail with core.ErrQueueUnavailable.
	// Default: 1024
	QueueSize int

	// TaskTimeout is the wall-clock budget of one task.
	// Default: 10s
	TaskTimeout time.Duration

	// TopK is the number of communities ranked by the hybrid search.
	// Default: 20
	TopK int

	// ExplorerOptions is the most options presented to an explorer.
	// Default: 5
	ExplorerOptions int

	// PopularLimit is the number of popular communities suggested on fallback.
	// Default: 5
	PopularLimit int

	// RosterLimit is the most active members named in an introduction.
	// Default: 5
	RosterLimit int

	// RosterWindow is how recently a member must have been active to be named.
	// Default: 7 days
	RosterWindow time.Duration

	// SafetyThreshold is the toxicity above which an introduction is discarded.
	// Default: 0.75
	SafetyThreshold float64
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:        runtime.NumCPU(),
		QueueSize:       1024,
		TaskTimeout:     10 * time.Second,
		TopK:            search.DefaultTopK,
		ExplorerOptions: decision.DefaultExplorerOptions,
		PopularLimit:    decision.DefaultPopularLimit,
		RosterLimit:     intro.DefaultRosterLimit,
		RosterWindow:    intro.DefaultRosterWindow,
		SafetyThreshold: intro.DefaultSafetyThreshold,
	}
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithPoolSize sets the number of concurrent workers.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithQueueSize sets the capacity of the pending task queue.
func WithQueueSize(size int) ConfigOption {
	return func(c *Config) {
		c.QueueSize = size
	}
}

// WithTaskTimeout sets the per-task budget.
func WithTaskTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.TaskTimeout = d
	}
}

// WithTopK sets the search depth.
func WithTopK(k int) ConfigOption {
	return func(c *Config) {
		c.TopK = k
	}
}

// WithSafetyThreshold sets the introduction toxicity threshold.
func WithSafetyThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.SafetyThreshold = threshold
	}
}

// WithRoster sets the introduction roster size and activity window.
func WithRoster(limit int, window time.Duration) ConfigOption {
	return func(c *Config) {
		c.RosterLimit = limit
		c.RosterWindow = window
	}
}

// NewConfig creates a new Config with defaults and applies the given options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.PoolSize < 1:
		return errors.New("pool size must be at least 1")
	case c.QueueSize < 1:
		return errors.New("queue size must be at least 1")
	case c.TaskTimeout <= 0:
		return errors.New("task timeout must be positive")
	case c.TopK < 1:
		return errors.New("top k must be at least 1")
	case c.ExplorerOptions < 1, c.PopularLimit < 1:
		return errors.New("option limits must be at least 1")
	case c.RosterLimit < 1 || c.RosterWindow <= 0:
		return errors.New("roster limit and window must be positive")
	case c.SafetyThreshold < 0 || c.SafetyThreshold > 1:
		return errors.New("safety threshold must be within [0, 1]")
	}
	return nil
}
