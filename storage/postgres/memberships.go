package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// MembershipRepository implements storage.MembershipRepository for Postgres.
type MembershipRepository struct {
	db DB
}

var _ storage.MembershipRepository = (*MembershipRepository)(nil)

// Join inserts the membership unless the user is already a member.
func (r *MembershipRepository) Join(ctx context.Context, m *core.Membership) (bool, error) {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	tag, err := r.db.Exec(ctx,
		`INSERT INTO community_members (community_id, user_id, joined_at, auto_joined, task_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (community_id, user_id) DO NOTHING`,
		m.CommunityID, m.UserID, m.JoinedAt, m.AutoJoined, string(m.TaskID))
	if err != nil {
		return false, fmt.Errorf("postgres: join: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IsMember reports whether userID belongs to communityID.
func (r *MembershipRepository) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`,
		communityID, userID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("postgres: is member: %w", err)
	}
	return found, nil
}

// ListMembers returns the memberships of a community ordered by user id.
func (r *MembershipRepository) ListMembers(ctx context.Context, communityID string) ([]*core.Membership, error) {
	rows, err := r.db.Query(ctx,
		`SELECT community_id, user_id, joined_at, auto_joined, task_id
		FROM community_members WHERE community_id = $1 ORDER BY user_id`, communityID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list members: %w", err)
	}
	defer rows.Close()

	var results []*core.Membership
	for rows.Next() {
		var (
			m      core.Membership
			taskID string
		)
		if err := rows.Scan(&m.CommunityID, &m.UserID, &m.JoinedAt, &m.AutoJoined, &taskID); err != nil {
			return nil, fmt.Errorf("postgres: scan member: %w", err)
		}
		m.TaskID = core.TaskID(taskID)
		results = append(results, &m)
	}
	return results, rows.Err()
}
