// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// CommunityRepository implements storage.CommunityRepository for BadgerDB.
type CommunityRepository struct {
	backend *Backend
}

var _ storage.CommunityRepository = (*CommunityRepository)(nil)

// NewCommunityRepository creates a new CommunityRepository.
func NewCommunityRepository(backend *Backend) *CommunityRepository {
	return &CommunityRepository{
		backend: backend,
	}
}

// PutCommunities inserts or replaces communities and their location index entries.
func (r *CommunityRepository) PutCommunities(ctx context.Context, communities ...*core.Community) error {
	for _, c := range communities {
		if err := core.ValidateCommunity(c); err != nil {
			return err
		}
	}

	return r.backend.Update(func(tx *badger.Txn) error {
		for _, c := range communities {
			key := makeCommunityKey(c.ID)

			old, err := readCommunity(tx, key)
			if err != nil {
				return err
			}
			if old != nil && (old.City != c.City || old.Timezone != c.Timezone) {
				if err := tx.Delete(makeLocationKey(old.City, old.Timezone, old.ID)); err != nil {
					return err
				}
			}

			if c.CreatedAt.IsZero() {
				if old != nil {
					c.CreatedAt = old.CreatedAt
				} else {
					c.CreatedAt = time.Now().UTC()
				}
			}

			if err := tx.Set(key, storage.MarshalCommunity(c)); err != nil {
				return err
			}
			if err := tx.Set(makeLocationKey(c.City, c.Timezone, c.ID), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// GetCommunity retrieves a single community by ID.
func (r *CommunityRepository) GetCommunity(ctx context.Context, id string) (*core.Community, error) {
	var result *core.Community
	err := r.backend.View(func(tx *badger.Txn) error {
		var err error
		result, err = readCommunity(tx, makeCommunityKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: community %s", core.ErrNotFound, id)
		}
		return nil
	})
	return result, err
}

// GetCommunities retrieves the communities that exist among ids, in input order.
func (r *CommunityRepository) GetCommunities(ctx context.Context, ids ...string) ([]*core.Community, error) {
	var result []*core.Community
	err := r.backend.View(func(tx *badger.Txn) error {
		for _, id := range ids {
			c, err := readCommunity(tx, makeCommunityKey(id))
			if err != nil {
				return err
			}
			if c != nil {
				result = append(result, c)
			}
		}
		return nil
	})
	return result, err
}

// FindCommunityIDsByLocation scans the location index for an exact city and timezone match.
func (r *CommunityRepository) FindCommunityIDsByLocation(ctx context.Context, city, timezone string) ([]string, error) {
	prefix := makePartialLocationKey(city, timezone)
	ids := []string{}
	err := r.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, prefix, false, func(key, _ []byte) error {
			ids = append(ids, string(bytes.TrimPrefix(key, prefix)))
			return nil
		})
	})
	return ids, err
}

// PopularCommunities returns communities by member count, largest first.
func (r *CommunityRepository) PopularCommunities(ctx context.Context, limit int) ([]*core.Community, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	all, err := r.ListCommunities(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b *core.Community) int {
		if a.MemberCount != b.MemberCount {
			return b.MemberCount - a.MemberCount
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListCommunities returns every community ordered by id.
func (r *CommunityRepository) ListCommunities(ctx context.Context) ([]*core.Community, error) {
	var results []*core.Community
	err := r.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(communityPrefix), true, func(_, val []byte) error {
			c, err := storage.UnmarshalCommunity(val)
			if err != nil {
				return err
			}
			results = append(results, c)
			return nil
		})
	})
	return results, err
}

// readCommunity reads a community from the transaction. Returns nil, nil if absent.
func readCommunity(tx *badger.Txn, key []byte) (*core.Community, error) {
	val, err := readValue(tx, key)
	if err != nil || val == nil {
		return nil, err
	}
	return storage.UnmarshalCommunity(val)
}
