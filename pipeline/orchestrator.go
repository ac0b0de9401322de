package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/decision"
	"github.com/poiesic/matchmaker/embedding"
	"github.com/poiesic/matchmaker/intro"
	"github.com/poiesic/matchmaker/notify"
	"github.com/poiesic/matchmaker/sanitize"
	"github.com/poiesic/matchmaker/search"
	"github.com/poiesic/matchmaker/storage"
)

// finalizeTimeout bounds the terminal transition and event publication,
// which run after the task budget may already be spent.
const finalizeTimeout = 5 * time.Second

// Dependencies are the collaborators an Orchestrator runs against.
type Dependencies struct {
	Tasks       storage.TaskRepository
	Profiles    storage.ProfileRepository
	Communities storage.CommunityRepository
	Memberships storage.MembershipRepository
	Activity    storage.ActivityLog
	Vectors     storage.VectorIndex
	Cache       cache.Cache
	Provider    ai.AIProvider
	Publisher   notify.Publisher
}

func (d Dependencies) validate() error {
	switch {
	case d.Tasks == nil:
		return fmt.Errorf("%w: tasks", ErrStoreRequired)
	case d.Profiles == nil:
		return fmt.Errorf("%w: profiles", ErrStoreRequired)
	case d.Communities == nil:
		return fmt.Errorf("%w: communities", ErrStoreRequired)
	case d.Memberships == nil:
		return fmt.Errorf("%w: memberships", ErrStoreRequired)
	case d.Activity == nil:
		return fmt.Errorf("%w: activity", ErrStoreRequired)
	case d.Vectors == nil:
		return fmt.Errorf("%w: vectors", ErrStoreRequired)
	case d.Cache == nil:
		return ErrCacheRequired
	case d.Provider == nil:
		return ErrAIProviderRequired
	case d.Publisher == nil:
		return ErrPublisherRequired
	}
	return nil
}

// Orchestrator accepts profiles and runs the matching pipeline for each one
// on a bounded worker pool.
//
// Phases run in a fixed order inside one worker: sanitization,
// vectorization, hybrid matching, decision and, for soulmate matches,
// introduction. Every task ends completed or failed and produces exactly
// one completion event.
type Orchestrator struct {
	cfg       *Config
	deps      Dependencies
	loader    *cache.Loader
	sanitizer *sanitize.Sanitizer
	embedder  *embedding.Generator
	searcher  *search.Engine
	decider   *decision.Engine
	intros    *intro.Generator

	pool   *ants.Pool
	queue  chan core.TaskID
	inputs sync.Map // core.TaskID -> *core.ProfileInput, until sanitized
	active sync.Map // core.TaskID -> struct{}, while queued or running here
	wg     sync.WaitGroup
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator and starts its workers.
// A nil cfg uses DefaultConfig().
func NewOrchestrator(deps Dependencies, cfg *Config, opts ...Option) (*Orchestrator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	o := &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		queue:  make(chan core.TaskID, cfg.QueueSize),
		done:   make(chan struct{}),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	logger := o.logger
	o.logger = logger.With("component", "pipeline")

	var err error
	if o.loader, err = cache.NewLoader(deps.Cache, logger); err != nil {
		return nil, err
	}
	if o.sanitizer, err = sanitize.NewSanitizer(deps.Provider.Redactor(), o.loader, deps.Profiles,
		sanitize.WithLogger(logger)); err != nil {
		return nil, err
	}
	if o.embedder, err = embedding.NewGenerator(deps.Provider.Embedder(), o.loader,
		embedding.WithLogger(logger)); err != nil {
		return nil, err
	}
	if o.searcher, err = search.NewEngine(deps.Communities, deps.Vectors,
		search.WithLogger(logger), search.WithCache(o.loader), search.WithTopK(cfg.TopK)); err != nil {
		return nil, err
	}
	if o.decider, err = decision.NewEngine(deps.Communities,
		decision.WithLogger(logger),
		decision.WithExplorerOptions(cfg.ExplorerOptions),
		decision.WithPopularLimit(cfg.PopularLimit)); err != nil {
		return nil, err
	}
	if o.intros, err = intro.NewGenerator(deps.Tasks, deps.Communities, deps.Memberships, deps.Activity,
		deps.Provider.Composer(), deps.Provider.SafetyScorer(),
		intro.WithLogger(logger),
		intro.WithRoster(cfg.RosterLimit, cfg.RosterWindow),
		intro.WithSafetyThreshold(cfg.SafetyThreshold)); err != nil {
		return nil, err
	}

	if o.pool, err = ants.NewPool(cfg.PoolSize); err != nil {
		return nil, err
	}
	go o.dispatch()
	return o, nil
}

// Submit validates input, creates a pending task and queues it.
// Caches derived from the user's previous profile are invalidated first so
// the new submission is matched against fresh data.
func (o *Orchestrator) Submit(ctx context.Context, input *core.ProfileInput) (core.TaskID, error) {
	if err := core.ValidateProfileInput(input); err != nil {
		return "", err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return "", ErrClosed
	}

	o.invalidatePrevious(ctx, input.UserID)

	task, err := o.deps.Tasks.CreateTask(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, core.ErrDuplicateSubmission) {
			o.logger.Error("failed to create task", "user_id", input.UserID, "err", err)
		}
		return "", err
	}

	stored := *input
	o.inputs.Store(task.ID, &stored)
	o.active.Store(task.ID, struct{}{})
	if !o.enqueue(task.ID) {
		o.inputs.Delete(task.ID)
		o.active.Delete(task.ID)
		o.rejectQueued(task)
		return task.ID, core.ErrQueueUnavailable
	}

	o.logger.Info("task submitted", "task_id", task.ID, "user_id", input.UserID)
	return task.ID, nil
}

// Get returns the current task record. It never waits on pipeline progress.
func (o *Orchestrator) Get(ctx context.Context, id core.TaskID) (*core.TaskRecord, error) {
	return o.deps.Tasks.GetTask(ctx, id)
}

// Recover requeues tasks left pending or processing by a previous run.
// Processing tasks resume where their step markers say they stopped.
// Tasks this orchestrator already has queued or running are skipped.
// It returns the number of tasks requeued.
func (o *Orchestrator) Recover(ctx context.Context) (int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return 0, ErrClosed
	}

	n := 0
	for _, status := range []core.TaskStatus{core.TaskPending, core.TaskProcessing} {
		tasks, err := o.deps.Tasks.ListTasksByStatus(ctx, status)
		if err != nil {
			return n, core.Unavailable(core.KindRelationalStore, err)
		}
		for _, task := range tasks {
			if _, busy := o.active.LoadOrStore(task.ID, struct{}{}); busy {
				continue
			}
			if !o.enqueue(task.ID) {
				o.active.Delete(task.ID)
				return n, core.ErrQueueUnavailable
			}
			n++
		}
	}
	if n > 0 {
		o.logger.Info("recovered tasks", "count", n)
	}
	return n, nil
}

// Close stops accepting tasks, waits for queued and running tasks to finish
// and releases the worker pool.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	<-o.done
	o.wg.Wait()
	o.pool.Release()
	return nil
}

func (o *Orchestrator) enqueue(id core.TaskID) bool {
	o.wg.Add(1)
	select {
	case o.queue <- id:
		return true
	default:
		o.wg.Done()
		return false
	}
}

// dispatch feeds queued tasks to the pool, blocking while every worker is busy.
func (o *Orchestrator) dispatch() {
	defer close(o.done)
	for id := range o.queue {
		if err := o.pool.Submit(func() {
			defer o.wg.Done()
			defer o.active.Delete(id)
			o.process(id)
		}); err != nil {
			o.logger.Error("worker pool rejected task", "task_id", id, "err", err)
			o.active.Delete(id)
			o.wg.Done()
		}
	}
}

func (o *Orchestrator) invalidatePrevious(ctx context.Context, userID string) {
	prev, err := o.deps.Profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			o.logger.Warn("could not load previous profile", "user_id", userID, "err", err)
		}
		return
	}
	c := o.loader.Cache()
	if prev.BioHash != "" {
		if err := c.Invalidate(ctx, cache.SanitizedBio, prev.BioHash); err != nil {
			o.logger.Warn("failed to invalidate sanitized bio", "user_id", userID, "err", err)
		}
	}
	if prev.VectorKey != "" {
		if err := c.Invalidate(ctx, cache.UserVector, prev.VectorKey); err != nil {
			o.logger.Warn("failed to invalidate user vector", "user_id", userID, "err", err)
		}
	}
}

// rejectQueued fails a task that was created but could not be queued.
func (o *Orchestrator) rejectQueued(task *core.TaskRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()
	o.logger.Error("task queue full", "task_id", task.ID, "capacity", o.cfg.QueueSize)
	if _, err := o.deps.Tasks.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{}); err != nil {
		o.logger.Error("failed to claim rejected task", "task_id", task.ID, "err", err)
		return
	}
	o.finish(ctx, task, nil, core.ErrQueueUnavailable)
}
