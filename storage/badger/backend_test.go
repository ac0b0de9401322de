package badger

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))

	_, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestUpdate_ReplaysOnConflict(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	key := []byte("counter")
	var attempts atomic.Int32

	err = backend.Update(func(tx *badger.Txn) error {
		n := attempts.Add(1)
		if _, err := readValue(tx, key); err != nil {
			return err
		}
		if n == 1 {
			// Concurrent writer touches the key this transaction read.
			require.NoError(t, backend.Update(func(other *badger.Txn) error {
				if err := other.Set(key, []byte("other")); err != nil {
					return err
				}
				return other.Commit()
			}))
		}
		if err := tx.Set(key, []byte("mine")); err != nil {
			return err
		}
		return tx.Commit()
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), attempts.Load())

	require.NoError(t, backend.View(func(tx *badger.Txn) error {
		val, err := readValue(tx, key)
		assert.Equal(t, "mine", string(val))
		return err
	}))
}

func TestUpdate_GivesUpAfterRetries(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.Update(func(tx *badger.Txn) error {
		return badger.ErrConflict
	})
	assert.ErrorIs(t, err, storage.ErrConflictRetriesExhausted)
}

func TestCheckpointRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Checkpoints()

	cp, err := repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	assert.Nil(t, cp)

	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{Name: "reembed", LastID: "comm_002", Processed: 2}))

	cp, err = repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, "comm_002", cp.LastID)
	assert.False(t, cp.UpdatedAt.IsZero())

	require.NoError(t, repo.ClearCheckpoint(ctx, "reembed"))
	cp, err = repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	assert.Nil(t, cp)
}
