package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// ActivityLog implements storage.ActivityLog for BadgerDB.
// Only the latest activity time per member is kept.
type ActivityLog struct {
	backend *Backend
}

var _ storage.ActivityLog = (*ActivityLog)(nil)

// NewActivityLog creates a new ActivityLog.
func NewActivityLog(backend *Backend) *ActivityLog {
	return &ActivityLog{backend: backend}
}

// RecentlyActive returns members active at or after since, most recent first.
func (a *ActivityLog) RecentlyActive(ctx context.Context, communityID string, since time.Time, limit int) ([]core.ActiveMember, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	members := []core.ActiveMember{}
	err := a.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, makePartialActivityKey(communityID), true, func(_, val []byte) error {
			m, err := storage.UnmarshalActiveMember(val)
			if err != nil {
				return err
			}
			if !m.LastActiveAt.Before(since) {
				members = append(members, *m)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(members, func(x, y core.ActiveMember) int {
		if c := y.LastActiveAt.Compare(x.LastActiveAt); c != 0 {
			return c
		}
		return strings.Compare(x.UserID, y.UserID)
	})
	if len(members) > limit {
		members = members[:limit]
	}
	return members, nil
}

// RecordActivity keeps the later of the stored and given activity times.
func (a *ActivityLog) RecordActivity(ctx context.Context, communityID, userID string, at time.Time) error {
	return a.backend.Update(func(tx *badger.Txn) error {
		key := makeActivityKey(communityID, userID)
		val, err := readValue(tx, key)
		if err != nil {
			return err
		}
		if val != nil {
			existing, err := storage.UnmarshalActiveMember(val)
			if err != nil {
				return err
			}
			if !at.After(existing.LastActiveAt) {
				return nil
			}
		}
		value := storage.MarshalActiveMember(&core.ActiveMember{UserID: userID, LastActiveAt: at.UTC()})
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// AppendMessage stores msg unless a message with its ID already exists.
func (a *ActivityLog) AppendMessage(ctx context.Context, msg *core.Message) (bool, error) {
	if msg.ID == "" || msg.CommunityID == "" {
		return false, fmt.Errorf("%w: message id and community id are required", core.ErrValidation)
	}

	created := false
	err := a.backend.Update(func(tx *badger.Txn) error {
		created = false
		key := makeMessageKey(msg.CommunityID, msg.ID)
		existing, err := readValue(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}
		value := storage.MarshalMessage(msg)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		created = true
		return tx.Commit()
	})
	return created, err
}

// ListMessages returns the messages of a community, oldest first.
func (a *ActivityLog) ListMessages(ctx context.Context, communityID string) ([]*core.Message, error) {
	var results []*core.Message
	err := a.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, makePartialMessageKey(communityID), true, func(_, val []byte) error {
			m, err := storage.UnmarshalMessage(val)
			if err != nil {
				return err
			}
			results = append(results, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(x, y *core.Message) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	return results, nil
}
