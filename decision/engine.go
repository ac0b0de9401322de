package decision

import (
	"context"
	"log/slog"

	"github.com/poiesic/matchmaker/core"
)

const (
	// DefaultExplorerOptions is the most options offered to an explorer.
	DefaultExplorerOptions = 5
	// DefaultPopularLimit is the number of popular communities suggested on fallback.
	DefaultPopularLimit = 5
)

// PopularSource lists the largest communities.
type PopularSource interface {
	PopularCommunities(ctx context.Context, limit int) ([]*core.Community, error)
}

// Decision is the tier and action chosen for a ranked list.
type Decision struct {
	Tier                  core.Tier
	Action                core.Action
	Matches               []core.RankedCommunity
	TopScore              float64
	DiversityApplied      bool
	RequiresProfileUpdate bool
}

// Engine classifies ranked matches into tiers.
type Engine struct {
	popular         PopularSource
	tiers           []TierRule
	explorerOptions int
	popularLimit    int
	logger          *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "decision")
		return nil
	}
}

// WithTiers replaces the tier table.
func WithTiers(tiers []TierRule) Option {
	return func(e *Engine) error {
		if len(tiers) == 0 {
			return ErrInvalidTiers
		}
		e.tiers = tiers
		return nil
	}
}

// WithExplorerOptions sets the most options presented to an explorer.
func WithExplorerOptions(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return ErrInvalidLimit
		}
		e.explorerOptions = n
		return nil
	}
}

// WithPopularLimit sets how many popular communities a fallback suggests.
func WithPopularLimit(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return ErrInvalidLimit
		}
		e.popularLimit = n
		return nil
	}
}

// NewEngine creates a decision engine over the default tier table.
func NewEngine(popular PopularSource, opts ...Option) (*Engine, error) {
	if popular == nil {
		return nil, ErrPopularSourceRequired
	}
	e := &Engine{
		popular:         popular,
		tiers:           DefaultTiers,
		explorerOptions: DefaultExplorerOptions,
		popularLimit:    DefaultPopularLimit,
		logger:          slog.Default().With("component", "decision"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Decide picks the tier for ranked, which must already be ordered by score.
// Only the top score is used for classification; an empty list is a fallback.
// Diversity is injected before the options are cut.
func (e *Engine) Decide(ctx context.Context, ranked []core.RankedCommunity) (*Decision, error) {
	if len(ranked) == 0 {
		return e.fallback(ctx, 0)
	}

	top := ranked[0].Score
	rule := Classify(e.tiers, top)
	e.logger.Debug("classified", "top_score", top, "tier", rule.Tier)

	switch rule.Action {
	case core.ActionSuggestPopular:
		return e.fallback(ctx, top)
	case core.ActionPresentOptions:
		diverse, applied := InjectDiversity(ranked)
		options := diverse[:min(e.explorerOptions, len(diverse))]
		return &Decision{
			Tier:             rule.Tier,
			Action:           core.Action{Kind: rule.Action, Options: communityIDs(options)},
			Matches:          options,
			TopScore:         top,
			DiversityApplied: applied,
		}, nil
	default:
		// Soulmate: the top match is the join target and is never displaced.
		diverse, applied := InjectDiversity(ranked)
		return &Decision{
			Tier:             rule.Tier,
			Action:           core.Action{Kind: rule.Action, CommunityID: ranked[0].CommunityID},
			Matches:          diverse,
			TopScore:         top,
			DiversityApplied: applied,
		}, nil
	}
}

func (e *Engine) fallback(ctx context.Context, top float64) (*Decision, error) {
	popular, err := e.popular.PopularCommunities(ctx, e.popularLimit)
	if err != nil {
		e.logger.Error("failed to load popular communities", "err", err)
		return nil, core.Unavailable(core.KindRelationalStore, err)
	}
	matches := make([]core.RankedCommunity, 0, len(popular))
	for _, c := range popular {
		matches = append(matches, core.RankedCommunity{
			CommunityID: c.ID,
			Name:        c.Name,
			Category:    c.Category,
			MemberCount: c.MemberCount,
		})
	}
	return &Decision{
		Tier:                  core.TierFallback,
		Action:                core.Action{Kind: core.ActionSuggestPopular, Options: communityIDs(matches)},
		Matches:               matches,
		TopScore:              top,
		RequiresProfileUpdate: true,
	}, nil
}

func communityIDs(list []core.RankedCommunity) []string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.CommunityID
	}
	return ids
}
