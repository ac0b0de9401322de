package sanitize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/cache"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// Sanitizer removes personally identifying content from bios before they are
// embedded or shown to anyone. Results are cached by a hash of the raw bio.
type Sanitizer struct {
	redactor ai.Redactor
	loader   *cache.Loader
	profiles storage.ProfileRepository
	logger   *slog.Logger
}

// Sanitized is a redacted bio.
type Sanitized struct {
	Text       string
	PIIRemoved []string
	BioHash    string
	CacheHit   bool
}

// errUnusableEntry marks a cached redaction that cannot be decoded.
var errUnusableEntry = errors.New("unusable cached redaction")

// Option configures a Sanitizer.
type Option func(*Sanitizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "sanitizer")
		return nil
	}
}

// NewSanitizer creates a new sanitizer.
func NewSanitizer(redactor ai.Redactor, loader *cache.Loader, profiles storage.ProfileRepository, opts ...Option) (*Sanitizer, error) {
	if redactor == nil {
		return nil, ErrRedactorRequired
	}
	if loader == nil {
		return nil, ErrCacheRequired
	}
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}

	s := &Sanitizer{
		redactor: redactor,
		loader:   loader,
		profiles: profiles,
		logger:   slog.Default().With("component", "sanitizer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Sanitize returns rawBio with PII removed. Any failure to obtain a usable
// redaction is reported as core.ErrSanitizationUnavailable; the raw text is
// never passed through. An unreadable cache entry is dropped and recomputed.
func (s *Sanitizer) Sanitize(ctx context.Context, rawBio string) (*Sanitized, error) {
	bioHash := core.ContentHash(rawBio)

	result, err := s.load(ctx, rawBio, bioHash)
	if errors.Is(err, errUnusableEntry) {
		s.logger.Warn("dropping unreadable cached redaction", "bio_hash", bioHash, "err", err)
		if err := s.loader.Cache().Invalidate(ctx, cache.SanitizedBio, bioHash); err != nil {
			s.logger.Warn("failed to invalidate cached redaction", "err", err)
		}
		result, err = s.load(ctx, rawBio, bioHash)
	}
	if err != nil {
		s.logger.Error("sanitization failed", "err", err)
		return nil, core.ErrSanitizationUnavailable.Wrap(err)
	}

	s.logger.Debug("sanitized bio", "cache_hit", result.CacheHit, "pii_classes", len(result.PIIRemoved))
	return result, nil
}

func (s *Sanitizer) load(ctx context.Context, rawBio, bioHash string) (*Sanitized, error) {
	data, hit, err := s.loader.Load(ctx, cache.SanitizedBio, bioHash, func(ctx context.Context) ([]byte, error) {
		redaction, err := s.redactor.Redact(ctx, rawBio)
		if err != nil {
			return nil, err
		}
		if redaction == nil || strings.TrimSpace(redaction.Text) == "" {
			return nil, fmt.Errorf("%w: no redacted text", ai.ErrEmptyResponse)
		}
		return encodeSanitized(&Sanitized{Text: redaction.Text, PIIRemoved: redaction.PIIRemoved}), nil
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeSanitized(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnusableEntry, err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, fmt.Errorf("%w: empty text", errUnusableEntry)
	}
	result.BioHash = bioHash
	result.CacheHit = hit
	return result, nil
}

// BuildProfile sanitizes input, enriches its tags and saves the resulting
// profile, superseding any earlier one for the user.
func (s *Sanitizer) BuildProfile(ctx context.Context, input *core.ProfileInput) (*core.UserProfile, error) {
	sanitized, err := s.Sanitize(ctx, input.Bio)
	if err != nil {
		return nil, err
	}

	tags := EnrichTags(input.InterestTags)
	profile := &core.UserProfile{
		UserID:       input.UserID,
		SanitizedBio: sanitized.Text,
		Tags:         tags,
		City:         input.City,
		Timezone:     input.Timezone,
		PIIRemoved:   sanitized.PIIRemoved,
		BioHash:      sanitized.BioHash,
		VectorKey:    core.ProfileVectorKey(sanitized.Text, tags),
	}
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, core.Unavailable(core.KindRelationalStore, err)
	}
	return profile, nil
}

// EnrichTags normalizes tags (lower case, trimmed, de-duplicated), sorts them
// and caps the list at core.MaxTags.
func EnrichTags(tags []string) []string {
	out := core.NormalizeTags(tags)
	slices.Sort(out)
	if len(out) > core.MaxTags {
		out = out[:core.MaxTags]
	}
	return out
}
