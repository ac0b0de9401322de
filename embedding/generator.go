package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// Generator turns sanitized profiles and community descriptions into
// unit-length vectors of a fixed dimensionality, caching the results.
type Generator struct {
	embedder   ai.Embedder
	loader     *cache.Loader
	dimensions int
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "embedding")
		return nil
	}
}

// WithDimensions sets the required vector size.
// Default is core.VectorDimensions.
func WithDimensions(dims int) Option {
	return func(g *Generator) error {
		if dims <= 0 {
			return ErrInvalidDimensions
		}
		g.dimensions = dims
		return nil
	}
}

// NewGenerator creates a new embedding generator.
func NewGenerator(embedder ai.Embedder, loader *cache.Loader, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if loader == nil {
		return nil, ErrCacheRequired
	}

	g := &Generator{
		embedder:   embedder,
		loader:     loader,
		dimensions: core.VectorDimensions,
		logger:     slog.Default().With("component", "embedding"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Dimensions returns the vector size produced by the generator.
func (g *Generator) Dimensions() int {
	return g.dimensions
}

// ProfilePayload builds the text embedded for a profile.
func ProfilePayload(text string, tags []string) string {
	if len(tags) == 0 {
		return text
	}
	return text + "\nInterests: " + strings.Join(tags, ", ")
}

// CommunityPayload builds the text embedded for a community.
func CommunityPayload(c *core.Community) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Category != "" {
		b.WriteString("\nCategory: ")
		b.WriteString(c.Category)
	}
	if c.Description != "" {
		b.WriteString("\n")
		b.WriteString(c.Description)
	}
	return b.String()
}

// EmbedProfile returns the vector for a sanitized bio and its tags.
// Failures are reported as core.ErrEmbeddingUnavailable.
func (g *Generator) EmbedProfile(ctx context.Context, text string, tags []string) ([]float32, error) {
	key := core.ProfileVectorKey(text, tags)
	return g.embed(ctx, cache.UserVector, key, ProfilePayload(text, tags))
}

// EmbedCommunity returns the vector for a community.
func (g *Generator) EmbedCommunity(ctx context.Context, c *core.Community) ([]float32, error) {
	return g.embed(ctx, cache.CommunityVector, CommunityKey(c), CommunityPayload(c))
}

// CommunityKey returns the community-vector cache key for c.
func CommunityKey(c *core.Community) string {
	return core.ContentHash(c.ID, CommunityPayload(c))
}

// EmbedCommunities returns vectors for communities in input order. Cached
// vectors are reused; the rest are embedded in one batch call.
func (g *Generator) EmbedCommunities(ctx context.Context, communities []*core.Community) ([][]float32, error) {
	results := make([][]float32, len(communities))
	keys := make([]string, len(communities))
	var missing []int
	var payloads []string

	for i, c := range communities {
		payload := CommunityPayload(c)
		keys[i] = CommunityKey(c)
		data, ok, err := g.loader.Cache().Get(ctx, cache.CommunityVector, keys[i])
		if err == nil && ok {
			if vec, err := storage.UnmarshalVector(data); err == nil && len(vec) == g.dimensions {
				results[i] = vec
				continue
			}
		}
		missing = append(missing, i)
		payloads = append(payloads, payload)
	}
	if len(missing) == 0 {
		return results, nil
	}

	vectors, err := g.embedder.EmbedTexts(ctx, payloads)
	if err != nil {
		return nil, core.ErrEmbeddingUnavailable.Wrap(err)
	}
	if len(vectors) != len(payloads) {
		return nil, core.ErrEmbeddingUnavailable.Wrap(fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrMalformedResponse, len(vectors), len(payloads)))
	}
	for j, idx := range missing {
		vec, err := g.prepare(vectors[j])
		if err != nil {
			return nil, core.ErrEmbeddingUnavailable.Wrap(err)
		}
		results[idx] = vec
		if err := g.loader.Cache().Put(ctx, cache.CommunityVector, keys[idx], storage.MarshalVector(vec), 0); err != nil {
			g.logger.Warn("failed to cache community vector", "community", communities[idx].ID, "err", err)
		}
	}
	return results, nil
}

func (g *Generator) embed(ctx context.Context, ns cache.Namespace, key, payload string) ([]float32, error) {
	vec, err := g.load(ctx, ns, key, payload)
	if errors.Is(err, errUnusableEntry) {
		// Stale entry, for example from a different model.
		g.logger.Warn("dropping unusable cached vector", "namespace", ns, "err", err)
		if err := g.loader.Cache().Invalidate(ctx, ns, key); err != nil {
			g.logger.Warn("failed to invalidate cached vector", "namespace", ns, "err", err)
		}
		vec, err = g.load(ctx, ns, key, payload)
	}
	if err != nil {
		g.logger.Error("embedding failed", "namespace", ns, "err", err)
		return nil, core.ErrEmbeddingUnavailable.Wrap(err)
	}
	return vec, nil
}

func (g *Generator) load(ctx context.Context, ns cache.Namespace, key, payload string) ([]float32, error) {
	data, hit, err := g.loader.Load(ctx, ns, key, func(ctx context.Context) ([]byte, error) {
		raw, err := g.embedder.EmbedText(ctx, payload)
		if err != nil {
			return nil, err
		}
		vec, err := g.prepare(raw)
		if err != nil {
			return nil, err
		}
		return storage.MarshalVector(vec), nil
	})
	if err != nil {
		return nil, err
	}

	vec, err := storage.UnmarshalVector(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnusableEntry, err)
	}
	if len(vec) != g.dimensions {
		return nil, fmt.Errorf("%w: %w: cached vector has %d dimensions", errUnusableEntry, storage.ErrDimensionMismatch, len(vec))
	}
	g.logger.Debug("embedded", "namespace", ns, "cache_hit", hit)
	return vec, nil
}

// prepare checks dimensionality and normalizes v to unit length.
func (g *Generator) prepare(v []float32) ([]float32, error) {
	if len(v) != g.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", storage.ErrDimensionMismatch, len(v), g.dimensions)
	}
	out, ok := Normalize(v)
	if !ok {
		return nil, ErrZeroVector
	}
	return out, nil
}

// Normalize returns a unit-length copy of v. ok is false for zero or
// non-finite vectors.
func Normalize(v []float32) (out []float32, ok bool) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, false
	}
	out = make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, true
}
