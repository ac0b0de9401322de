package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// MembershipRepository implements storage.MembershipRepository for BadgerDB.
type MembershipRepository struct {
	backend *Backend
}

var _ storage.MembershipRepository = (*MembershipRepository)(nil)

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(backend *Backend) *MembershipRepository {
	return &MembershipRepository{backend: backend}
}

// Join stores the membership unless the user is already a member.
func (r *MembershipRepository) Join(ctx context.Context, m *core.Membership) (bool, error) {
	created := false
	err := r.backend.Update(func(tx *badger.Txn) error {
		created = false
		key := makeMemberKey(m.CommunityID, m.UserID)
		existing, err := readValue(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if m.JoinedAt.IsZero() {
			m.JoinedAt = time.Now().UTC()
		}
		if err := tx.Set(key, storage.MarshalMembership(m)); err != nil {
			return err
		}
		created = true
		return tx.Commit()
	})
	return created, err
}

// IsMember reports whether userID belongs to communityID.
func (r *MembershipRepository) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	found := false
	err := r.backend.View(func(tx *badger.Txn) error {
		val, err := readValue(tx, makeMemberKey(communityID, userID))
		found = val != nil
		return err
	})
	return found, err
}

// ListMembers returns the memberships of a community ordered by user id.
func (r *MembershipRepository) ListMembers(ctx context.Context, communityID string) ([]*core.Membership, error) {
	var results []*core.Membership
	err := r.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, makePartialMemberKey(communityID), true, func(_, val []byte) error {
			m, err := storage.UnmarshalMembership(val)
			if err != nil {
				return err
			}
			results = append(results, m)
			return nil
		})
	})
	return results, err
}
