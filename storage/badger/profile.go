package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) *ProfileRepository {
	return &ProfileRepository{backend: backend}
}

// SaveProfile replaces the stored profile for the user.
func (r *ProfileRepository) SaveProfile(ctx context.Context, profile *core.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("%w: %w", core.ErrValidation, core.ErrEmptyUserID)
	}
	profile.UpdatedAt = time.Now().UTC()
	value := storage.MarshalProfile(profile)
	return r.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Set(makeProfileKey(profile.UserID), value); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetProfile retrieves the stored profile for the user.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	var result *core.UserProfile
	err := r.backend.View(func(tx *badger.Txn) error {
		val, err := readValue(tx, makeProfileKey(userID))
		if err != nil {
			return err
		}
		if val == nil {
			return fmt.Errorf("%w: profile %s", core.ErrNotFound, userID)
		}
		result, err = storage.UnmarshalProfile(val)
		return err
	})
	return result, err
}
