package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// CommunityRepository implements storage.CommunityRepository for Postgres.
type CommunityRepository struct {
	db DB
}

var _ storage.CommunityRepository = (*CommunityRepository)(nil)

const communityColumns = `community_id, name, category, description, member_count, city, timezone, embedding_id, created_at`

// PutCommunities upserts communities in one transaction. An existing row
// keeps its created_at.
func (r *CommunityRepository) PutCommunities(ctx context.Context, communities ...*core.Community) error {
	for _, c := range communities {
		if err := core.ValidateCommunity(c); err != nil {
			return err
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	for _, c := range communities {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO communities (`+communityColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (community_id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				description = EXCLUDED.description,
				member_count = EXCLUDED.member_count,
				city = EXCLUDED.city,
				timezone = EXCLUDED.timezone,
				embedding_id = EXCLUDED.embedding_id
			RETURNING created_at`,
			c.ID, c.Name, c.Category, c.Description, c.MemberCount, c.City, c.Timezone, c.EmbeddingID, createdAt,
		).Scan(&c.CreatedAt)
		if err != nil {
			return fmt.Errorf("postgres: upsert community %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// GetCommunity retrieves a single community by ID.
func (r *CommunityRepository) GetCommunity(ctx context.Context, id string) (*core.Community, error) {
	row := r.db.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities WHERE community_id = $1`, id)
	c, err := scanCommunity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: community %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get community: %w", err)
	}
	return c, nil
}

// GetCommunities retrieves the communities that exist among ids, in input order.
func (r *CommunityRepository) GetCommunities(ctx context.Context, ids ...string) ([]*core.Community, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := r.list(ctx, `SELECT `+communityColumns+` FROM communities WHERE community_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.Community, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	var result []*core.Community
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// FindCommunityIDsByLocation returns ids with an exact city and timezone match.
func (r *CommunityRepository) FindCommunityIDsByLocation(ctx context.Context, city, timezone string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT community_id FROM communities WHERE city = $1 AND timezone = $2 ORDER BY community_id`, city, timezone)
	if err != nil {
		return nil, fmt.Errorf("postgres: find by location: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan community id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PopularCommunities returns communities by member count, largest first.
func (r *CommunityRepository) PopularCommunities(ctx context.Context, limit int) ([]*core.Community, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	return r.list(ctx,
		`SELECT `+communityColumns+` FROM communities ORDER BY member_count DESC, community_id LIMIT $1`, limit)
}

// ListCommunities returns every community ordered by id.
func (r *CommunityRepository) ListCommunities(ctx context.Context) ([]*core.Community, error) {
	return r.list(ctx, `SELECT `+communityColumns+` FROM communities ORDER BY community_id`)
}

func (r *CommunityRepository) list(ctx context.Context, sql string, args ...any) ([]*core.Community, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query communities: %w", err)
	}
	defer rows.Close()

	var results []*core.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan community: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func scanCommunity(row pgx.Row) (*core.Community, error) {
	var c core.Community
	err := row.Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.MemberCount,
		&c.City, &c.Timezone, &c.EmbeddingID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
