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

// TaskRepository implements storage.TaskRepository for BadgerDB.
//
// Each user with an active task has an index key naming that task. Creating a
// task reads the index key, so two concurrent submissions for the same user
// conflict on commit and the replayed one observes the first and is rejected.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) *TaskRepository {
	return &TaskRepository{
		backend: backend,
	}
}

// CreateTask creates a pending task for userID.
func (r *TaskRepository) CreateTask(ctx context.Context, userID string) (*core.TaskRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrValidation, core.ErrEmptyUserID)
	}

	var created *core.TaskRecord
	err := r.backend.Update(func(tx *badger.Txn) error {
		activeKey := makeActiveTaskKey(userID)
		activeID, err := readValue(tx, activeKey)
		if err != nil {
			return err
		}
		if activeID != nil {
			existing, err := readTask(tx, makeTaskKey(core.TaskID(activeID)))
			if err != nil {
				return err
			}
			// A stale index entry (task already terminal) is simply overwritten.
			if existing != nil && existing.Status.IsActive() {
				return fmt.Errorf("%w: user %s has active task %s", core.ErrDuplicateSubmission, userID, existing.ID)
			}
		}

		now := time.Now().UTC()
		task := &core.TaskRecord{
			ID:        core.NewTaskID(),
			UserID:    userID,
			Status:    core.TaskPending,
			Phase:     core.PhaseQueued,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := writeTask(tx, task); err != nil {
			return err
		}
		if err := tx.Set(activeKey, []byte(task.ID)); err != nil {
			return err
		}
		created = task
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id core.TaskID) (*core.TaskRecord, error) {
	var result *core.TaskRecord
	err := r.backend.View(func(tx *badger.Txn) error {
		var err error
		result, err = readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: task %s", core.ErrNotFound, id)
		}
		return nil
	})
	return result, err
}

// TransitionTask performs a compare-and-set status change.
func (r *TaskRepository) TransitionTask(ctx context.Context, id core.TaskID, from, to core.TaskStatus, update core.TaskUpdate) (*core.TaskRecord, error) {
	var result *core.TaskRecord
	err := r.backend.Update(func(tx *badger.Txn) error {
		task, err := readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("%w: task %s", core.ErrNotFound, id)
		}
		if task.Status != from {
			return fmt.Errorf("%w: task %s is %s, expected %s", core.ErrInvalidTransition, id, task.Status, from)
		}
		if err := core.ValidateTransition(from, to, update); err != nil {
			return err
		}

		task.ApplyTransition(to, update, time.Now().UTC())
		if err := writeTask(tx, task); err != nil {
			return err
		}

		if to.IsTerminal() {
			if err := clearActiveTask(tx, task); err != nil {
				return err
			}
		}
		result = task
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetTaskPhase records the current phase. Terminal tasks are left untouched.
func (r *TaskRepository) SetTaskPhase(ctx context.Context, id core.TaskID, phase string) error {
	return r.modify(id, func(task *core.TaskRecord) bool {
		if task.Status.IsTerminal() || task.Phase == phase {
			return false
		}
		task.Phase = phase
		return true
	})
}

// MarkTaskStep records a committed side effect.
func (r *TaskRepository) MarkTaskStep(ctx context.Context, id core.TaskID, step string) error {
	return r.modify(id, func(task *core.TaskRecord) bool {
		if task.StepDone(step) {
			return false
		}
		if task.Steps == nil {
			task.Steps = make(map[string]time.Time)
		}
		task.Steps[step] = time.Now().UTC()
		return true
	})
}

// ListTasksByStatus returns tasks in the given status, oldest first.
func (r *TaskRepository) ListTasksByStatus(ctx context.Context, status core.TaskStatus) ([]*core.TaskRecord, error) {
	var results []*core.TaskRecord
	err := r.backend.View(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(taskPrefix), true, func(_, val []byte) error {
			task, err := storage.UnmarshalTask(val)
			if err != nil {
				return err
			}
			if task.Status == status {
				results = append(results, task)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.TaskRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return results, nil
}

// modify applies fn to a stored task and writes it back when fn reports a change.
func (r *TaskRepository) modify(id core.TaskID, fn func(task *core.TaskRecord) bool) error {
	return r.backend.Update(func(tx *badger.Txn) error {
		task, err := readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("%w: task %s", core.ErrNotFound, id)
		}
		if !fn(task) {
			return nil
		}
		task.UpdatedAt = time.Now().UTC()
		if err := writeTask(tx, task); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// clearActiveTask removes the user's active index entry if it still names task.
func clearActiveTask(tx *badger.Txn, task *core.TaskRecord) error {
	activeKey := makeActiveTaskKey(task.UserID)
	activeID, err := readValue(tx, activeKey)
	if err != nil {
		return err
	}
	if core.TaskID(activeID) != task.ID {
		return nil
	}
	return tx.Delete(activeKey)
}

// readTask reads a task from the transaction. Returns nil, nil if absent.
func readTask(tx *badger.Txn, key []byte) (*core.TaskRecord, error) {
	val, err := readValue(tx, key)
	if err != nil || val == nil {
		return nil, err
	}
	return storage.UnmarshalTask(val)
}

func writeTask(tx *badger.Txn, task *core.TaskRecord) error {
	return tx.Set(makeTaskKey(task.ID), storage.MarshalTask(task))
}
