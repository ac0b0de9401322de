package reembed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/embedding"
	"github.com/poiesic/matchmaker/storage"
)

// SeedMember is an existing member listed in a seed file.
type SeedMember struct {
	CommunityID  string    `json:"community_id"`
	UserID       string    `json:"user_id"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// SeedFile is the JSON document accepted by the seed command.
type SeedFile struct {
	Communities []*core.Community `json:"communities"`
	Members     []SeedMember      `json:"members,omitempty"`
}

// ReadSeedFile decodes a seed document. Unknown fields are rejected.
func ReadSeedFile(r io.Reader) (*SeedFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var seed SeedFile
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for _, c := range seed.Communities {
		if err := core.ValidateCommunity(c); err != nil {
			return nil, err
		}
	}
	return &seed, nil
}

// SeedStats summarizes a seeding run.
type SeedStats struct {
	Communities int
	Members     int
}

// SeederOption configures a Seeder.
type SeederOption func(*Seeder) error

// WithMembers lets the seeder write memberships and member activity.
func WithMembers(memberships storage.MembershipRepository, activity storage.ActivityLog) SeederOption {
	return func(s *Seeder) error {
		s.memberships = memberships
		s.activity = activity
		return nil
	}
}

// WithSeedBatchSize sets how many communities are embedded per call.
func WithSeedBatchSize(n int) SeederOption {
	return func(s *Seeder) error {
		if n <= 0 {
			return ErrInvalidBatchSize
		}
		s.batchSize = n
		return nil
	}
}

// WithSeederLogger sets a custom logger. If nil, uses slog.Default().
func WithSeederLogger(logger *slog.Logger) SeederOption {
	return func(s *Seeder) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// Seeder loads communities into the catalog and the vector index.
type Seeder struct {
	communities storage.CommunityRepository
	vectors     storage.VectorIndex
	generator   *embedding.Generator
	memberships storage.MembershipRepository
	activity    storage.ActivityLog
	batchSize   int
	logger      *slog.Logger
}

// NewSeeder creates a seeder. Vectors come from generator so they share the
// community-vector cache with the rest of the system.
func NewSeeder(communities storage.CommunityRepository, vectors storage.VectorIndex, generator *embedding.Generator, opts ...SeederOption) (*Seeder, error) {
	if communities == nil {
		return nil, ErrCommunityRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if generator == nil {
		return nil, ErrEmbedderRequired
	}
	s := &Seeder{
		communities: communities,
		vectors:     vectors,
		generator:   generator,
		batchSize:   DefaultBatchSize,
		logger:      slog.Default().With("component", "seeder"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Seed writes every community's vector and then the community itself, so the
// catalog never names a community the index cannot rank. Members are written
// last, when the seeder was given somewhere to put them.
func (s *Seeder) Seed(ctx context.Context, seed *SeedFile) (*SeedStats, error) {
	stats := &SeedStats{}
	for i := 0; i < len(seed.Communities); i += s.batchSize {
		batch := seed.Communities[i:min(i+s.batchSize, len(seed.Communities))]
		vectors, err := s.generator.EmbedCommunities(ctx, batch)
		if err != nil {
			return stats, err
		}
		for j, c := range batch {
			if err := s.vectors.Upsert(ctx, c.ID, vectors[j]); err != nil {
				return stats, core.Unavailable(core.KindVectorIndex, err)
			}
			c.EmbeddingID = c.ID
		}
		if err := s.communities.PutCommunities(ctx, batch...); err != nil {
			return stats, core.Unavailable(core.KindRelationalStore, err)
		}
		stats.Communities += len(batch)
		s.logger.Debug("seeded batch", "communities", len(batch), "total", stats.Communities)
	}

	if len(seed.Members) > 0 && s.memberships != nil {
		for _, m := range seed.Members {
			if err := s.addMember(ctx, m); err != nil {
				return stats, err
			}
			stats.Members++
		}
	}
	s.logger.Info("seed complete", "communities", stats.Communities, "members", stats.Members)
	return stats, nil
}

func (s *Seeder) addMember(ctx context.Context, m SeedMember) error {
	joinedAt := m.LastActiveAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}
	if _, err := s.memberships.Join(ctx, &core.Membership{
		CommunityID: m.CommunityID,
		UserID:      m.UserID,
		JoinedAt:    joinedAt,
	}); err != nil {
		return core.Unavailable(core.KindRelationalStore, err)
	}
	if s.activity == nil || m.LastActiveAt.IsZero() {
		return nil
	}
	if err := s.activity.RecordActivity(ctx, m.CommunityID, m.UserID, m.LastActiveAt); err != nil {
		return core.Unavailable(core.KindActivityLog, err)
	}
	return nil
}
