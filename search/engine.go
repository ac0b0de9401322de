package search

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// DefaultTopK is the number of ranked communities returned by a search.
const DefaultTopK = 20

// Engine finds the communities closest to a profile vector in two phases:
// an exact city and timezone filter over the relational store, then cosine
// similarity restricted to the filtered ids. When the filter matches
// nothing, the similarity search runs over every community instead.
type Engine struct {
	communities storage.CommunityRepository
	vectors     storage.VectorIndex
	loader      *cache.Loader
	topK        int
	logger      *slog.Logger
}

// Query describes one search.
type Query struct {
	Vector   []float32
	City     string
	Timezone string
	TopK     int // Zero uses the engine default
}

// Result is a ranked list of communities plus how it was obtained.
type Result struct {
	Matches        []core.RankedCommunity
	Fallback       bool // Phase A was empty; Phase B ran unrestricted
	CandidateCount int  // Size of the Phase A candidate set
	CacheHit       bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "search")
		return nil
	}
}

// WithCache caches results in the query-result namespace.
func WithCache(loader *cache.Loader) Option {
	return func(e *Engine) error {
		e.loader = loader
		return nil
	}
}

// WithTopK sets the default number of results.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k <= 0 {
			return ErrInvalidTopK
		}
		e.topK = k
		return nil
	}
}

// NewEngine creates a new hybrid search engine.
func NewEngine(communities storage.CommunityRepository, vectors storage.VectorIndex, opts ...Option) (*Engine, error) {
	if communities == nil {
		return nil, ErrCommunityRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}

	e := &Engine{
		communities: communities,
		vectors:     vectors,
		topK:        DefaultTopK,
		logger:      slog.Default().With("component", "search"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search runs a hybrid search.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	return e.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor runs a hybrid search, reporting each phase to monitor.
// Cached results skip both phases and are reported through CacheHit.
func (e *Engine) SearchWithMonitor(ctx context.Context, q Query, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if len(q.Vector) == 0 {
		return nil, ErrEmptyVector
	}
	if q.TopK <= 0 {
		q.TopK = e.topK
	}
	monitor.Start(q)

	if e.loader == nil {
		result, err := e.search(ctx, q, monitor)
		if err != nil {
			return nil, err
		}
		monitor.Finish(result)
		return result, nil
	}

	key := QueryKey(q)
	data, hit, err := e.loader.Load(ctx, cache.QueryResult, key, func(ctx context.Context) ([]byte, error) {
		result, err := e.search(ctx, q, monitor)
		if err != nil {
			return nil, err
		}
		return encodeResult(result), nil
	})
	if err != nil {
		return nil, err
	}
	result, err := decodeResult(data)
	if err != nil {
		_ = e.loader.Cache().Invalidate(ctx, cache.QueryResult, key)
		e.logger.Warn("dropping unreadable cached search result", "err", err)
		return e.SearchWithMonitor(ctx, q, monitor)
	}
	if hit {
		monitor.CacheHit(key)
	}
	result.CacheHit = hit
	monitor.Finish(result)
	return result, nil
}

func (e *Engine) search(ctx context.Context, q Query, monitor Monitor) (*Result, error) {
	// Phase A: exact structured filter
	candidates, err := e.communities.FindCommunityIDsByLocation(ctx, q.City, q.Timezone)
	if err != nil {
		e.logger.Error("structured filter failed", "city", q.City, "timezone", q.Timezone, "err", err)
		return nil, core.Unavailable(core.KindRelationalStore, err)
	}
	monitor.AfterStructuredFilter(candidates)

	// Phase B: similarity search, restricted unless Phase A was empty
	result := &Result{CandidateCount: len(candidates)}
	allowlist := candidates
	if len(candidates) == 0 {
		result.Fallback = true
		allowlist = nil
		e.logger.Debug("no communities in location, searching everywhere", "city", q.City, "timezone", q.Timezone)
	}
	hits, err := e.vectors.Query(ctx, q.Vector, q.TopK, allowlist)
	if err != nil {
		e.logger.Error("vector query failed", "err", err)
		return nil, core.Unavailable(core.KindVectorIndex, err)
	}
	monitor.AfterVectorSearch(hits, result.Fallback)

	// Hydrate
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	communities, err := e.communities.GetCommunities(ctx, ids...)
	if err != nil {
		e.logger.Error("error retrieving communities", "count", len(ids), "err", err)
		return nil, core.Unavailable(core.KindRelationalStore, err)
	}
	byID := make(map[string]*core.Community, len(communities))
	for _, c := range communities {
		byID[c.ID] = c
	}

	matches := make([]core.RankedCommunity, 0, len(hits))
	for _, h := range hits {
		c, ok := byID[h.ID]
		if !ok {
			e.logger.Warn("vector has no community record", "id", h.ID)
			continue
		}
		matches = append(matches, core.RankedCommunity{
			CommunityID: c.ID,
			Name:        c.Name,
			Category:    c.Category,
			MemberCount: c.MemberCount,
			Score:       clampScore(h.Score),
		})
	}
	SortRanked(matches)
	if len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	monitor.AfterHydration(matches)

	result.Matches = matches
	return result, nil
}

// SortRanked orders matches by score descending, then community id ascending.
func SortRanked(matches []core.RankedCommunity) {
	slices.SortStableFunc(matches, func(a, b core.RankedCommunity) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.CommunityID, b.CommunityID)
	})
}

func clampScore(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(-1, math.Min(1, s))
}

// QueryKey returns the query-result cache key for q.
func QueryKey(q Query) string {
	return core.ContentHash(string(storage.MarshalVector(q.Vector)), q.City, q.Timezone, strconv.Itoa(q.TopK))
}
