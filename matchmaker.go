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

// Package matchmaker wires the storage, cache, language-model provider,
// notification broker and matching pipeline into one Service.
package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/ai/openai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/embedding"
	"github.com/poiesic/matchmaker/notify"
	"github.com/poiesic/matchmaker/pipeline"
	"github.com/poiesic/matchmaker/reembed"
	"github.com/poiesic/matchmaker/storage"
	"github.com/poiesic/matchmaker/storage/badger"
	"github.com/poiesic/matchmaker/storage/postgres"
)

// Service is a running matchmaker: a store, a cache, a provider and an
// orchestrator with its workers.
type Service struct {
	store        *badger.Store
	pg           *postgres.Store
	tasks        storage.TaskRepository
	communities  storage.CommunityRepository
	memberships  storage.MembershipRepository
	cache        *cache.Tiered
	loader       *cache.Loader
	provider     ai.AIProvider
	broker       *notify.Broker
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Service.
type Option func(*options)

type options struct {
	aiConfig       *ai.Config
	pipelineConfig *pipeline.Config
	provider       ai.AIProvider
	postgresURL    string
	poolConfig     *postgres.PoolConfig
	cacheSize      int
	logger         *slog.Logger
}

// WithAIConfig sets the language-model configuration used to build the
// default OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider uses provider as is instead of building one from the AI
// configuration. The service closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithPipelineConfig sets the orchestrator configuration.
func WithPipelineConfig(cfg *pipeline.Config) Option {
	return func(o *options) {
		o.pipelineConfig = cfg
	}
}

// WithPostgres keeps tasks, communities and memberships in Postgres.
// Profiles, activity, vectors, the cache and checkpoints stay in BadgerDB.
func WithPostgres(connString string, poolCfg *postgres.PoolConfig) Option {
	return func(o *options) {
		o.postgresURL = connString
		o.poolConfig = poolCfg
	}
}

// WithCacheSize sets the number of in-process cache entries per namespace.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithLogger sets a custom logger. If nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open opens the BadgerDB store at path and starts the service.
func Open(ctx context.Context, path string, opts ...Option) (*Service, error) {
	store, err := badger.Open(path)
	if err != nil {
		return nil, err
	}
	return newService(ctx, store, opts...)
}

// newService takes ownership of store and closes it on failure.
func newService(ctx context.Context, store *badger.Store, opts ...Option) (_ *Service, err error) {
	options := &options{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	s := &Service{
		store:       store,
		tasks:       store.Tasks(),
		communities: store.Communities(),
		memberships: store.Memberships(),
		logger:      options.logger.With("component", "matchmaker"),
	}
	defer func() {
		if err != nil {
			s.closeResources()
		}
	}()

	s.provider = options.provider
	if s.provider == nil {
		provider, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		s.provider = ai.Guarded(provider, ai.NewGuard(options.aiConfig))
	}

	if options.postgresURL != "" {
		if s.pg, err = postgres.Open(ctx, options.postgresURL, options.poolConfig); err != nil {
			return nil, err
		}
		if err = s.pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		s.tasks = s.pg.Tasks()
		s.communities = s.pg.Communities()
		s.memberships = s.pg.Memberships()
	}

	if s.cache, err = cache.NewTiered(store.Cache(),
		cache.WithLogger(options.logger),
		cache.WithMemory(cache.NewMemory(options.cacheSize))); err != nil {
		return nil, err
	}
	if s.loader, err = cache.NewLoader(s.cache, options.logger); err != nil {
		return nil, err
	}

	s.broker = notify.NewBroker(options.logger)
	s.orchestrator, err = pipeline.NewOrchestrator(pipeline.Dependencies{
		Tasks:       s.tasks,
		Profiles:    store.Profiles(),
		Communities: s.communities,
		Memberships: s.memberships,
		Activity:    store.Activity(),
		Vectors:     store.Vectors(),
		Cache:       s.cache,
		Provider:    s.provider,
		Publisher:   s.broker,
	}, options.pipelineConfig, pipeline.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Submit queues a profile for matching and returns the task id.
func (s *Service) Submit(ctx context.Context, input *core.ProfileInput) (core.TaskID, error) {
	return s.orchestrator.Submit(ctx, input)
}

// Get returns the current state of a task.
func (s *Service) Get(ctx context.Context, id core.TaskID) (*core.TaskRecord, error) {
	return s.orchestrator.Get(ctx, id)
}

// Subscribe returns the completion events for userID's tasks.
func (s *Service) Subscribe(userID string) <-chan notify.Event {
	return s.broker.Subscribe(notify.Topic(userID))
}

// Unsubscribe releases a channel returned by Subscribe.
func (s *Service) Unsubscribe(userID string, ch <-chan notify.Event) {
	s.broker.Unsubscribe(notify.Topic(userID), ch)
}

// Match submits input and waits for its completion event, returning the
// final task record. It subscribes before submitting so the event cannot be
// missed.
func (s *Service) Match(ctx context.Context, input *core.ProfileInput) (*core.TaskRecord, error) {
	events := s.Subscribe(input.UserID)
	defer s.Unsubscribe(input.UserID, events)

	id, err := s.Submit(ctx, input)
	if err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil, pipeline.ErrClosed
			}
			if ev.TaskID == id {
				return s.Get(ctx, id)
			}
		}
	}
}

// Recover re-queues tasks left unfinished by a previous process.
func (s *Service) Recover(ctx context.Context) (int, error) {
	return s.orchestrator.Recover(ctx)
}

// Communities returns the community catalog.
func (s *Service) Communities() storage.CommunityRepository {
	return s.communities
}

// Memberships returns the membership repository.
func (s *Service) Memberships() storage.MembershipRepository {
	return s.memberships
}

// Activity returns the community activity log.
func (s *Service) Activity() storage.ActivityLog {
	return s.store.Activity()
}

// NewSeeder returns a seeder that writes into this service's stores.
func (s *Service) NewSeeder(opts ...reembed.SeederOption) (*reembed.Seeder, error) {
	gen, err := embedding.NewGenerator(s.provider.Embedder(), s.loader, embedding.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	opts = append([]reembed.SeederOption{
		reembed.WithMembers(s.memberships, s.store.Activity()),
		reembed.WithSeederLogger(s.logger),
	}, opts...)
	return reembed.NewSeeder(s.communities, s.store.Vectors(), gen, opts...)
}

// NewReembedder returns a resumable reembedder over this service's catalog.
func (s *Service) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(s.communities, s.store.Vectors(), s.provider.Embedder(), cfg, progress,
		reembed.WithCheckpoints(s.store.Checkpoints()),
		reembed.WithCache(s.cache),
		reembed.WithLogger(s.logger))
}

// Close stops the workers, then closes the provider and the stores. Queued
// tasks run to completion first. Later calls return the first result.
func (s *Service) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.close() })
	return s.closeErr
}

func (s *Service) close() error {
	var errs []error
	if s.orchestrator != nil {
		if err := s.orchestrator.Close(); err != nil {
			s.logger.Error("error closing orchestrator", "err", err)
			errs = append(errs, err)
		}
	}
	if s.broker != nil {
		s.broker.Close()
	}
	if err := s.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) closeResources() error {
	var errs []error
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if s.pg != nil {
		if err := s.pg.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
