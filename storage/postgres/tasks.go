package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// TaskRepository implements storage.TaskRepository for Postgres.
// A partial unique index allows one active task per user; transitions are
// single UPDATE statements conditioned on the current status.
type TaskRepository struct {
	db DB
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

const taskColumns = `task_id, user_id, status, phase, steps, result, error, created_at, updated_at, completed_at`

// CreateTask inserts a pending task for userID.
func (r *TaskRepository) CreateTask(ctx context.Context, userID string) (*core.TaskRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrValidation, core.ErrEmptyUserID)
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
	_, err := r.db.Exec(ctx,
		`INSERT INTO match_tasks (task_id, user_id, status, phase, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(task.ID), task.UserID, string(task.Status), task.Phase, task.CreatedAt, task.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: user %s already has an active task", core.ErrDuplicateSubmission, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: insert task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id core.TaskID) (*core.TaskRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM match_tasks WHERE task_id = $1`, string(id))
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: task %s", core.ErrNotFound, id)
	}
	return task, err
}

// TransitionTask applies a compare-and-set status change.
func (r *TaskRepository) TransitionTask(ctx context.Context, id core.TaskID, from, to core.TaskStatus, update core.TaskUpdate) (*core.TaskRecord, error) {
	if err := core.ValidateTransition(from, to, update); err != nil {
		return nil, err
	}
	result, err := marshalNullable(update.Result)
	if err != nil {
		return nil, err
	}
	taskErr, err := marshalNullable(update.Error)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var completedAt *time.Time
	phase := ""
	if to.IsTerminal() {
		completedAt = &now
		phase = core.PhaseDone
	}

	row := r.db.QueryRow(ctx,
		`UPDATE match_tasks
		SET status = $1, result = $2, error = $3, updated_at = $4, completed_at = $5,
			phase = COALESCE(NULLIF($6::text, ''), phase)
		WHERE task_id = $7 AND status = $8
		RETURNING `+taskColumns,
		string(to), result, taskErr, now, completedAt, phase, string(id), string(from))
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetTask(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: task %s is %s, not %s", core.ErrInvalidTransition, id, current.Status, from)
	}
	return task, err
}

// SetTaskPhase records the pipeline phase. Terminal tasks are left unchanged.
func (r *TaskRepository) SetTaskPhase(ctx context.Context, id core.TaskID, phase string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE match_tasks SET phase = $1, updated_at = $2 WHERE task_id = $3 AND status IN ('pending', 'processing')`,
		phase, time.Now().UTC(), string(id))
	if err != nil {
		return fmt.Errorf("postgres: set phase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

// MarkTaskStep records a step marker, keeping the first timestamp.
func (r *TaskRepository) MarkTaskStep(ctx context.Context, id core.TaskID, step string) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE match_tasks SET steps = steps || jsonb_build_object($1::text, $2::timestamptz), updated_at = $2
		WHERE task_id = $3 AND NOT (steps ? $1)`,
		step, now, string(id))
	if err != nil {
		return fmt.Errorf("postgres: mark step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

// ListTasksByStatus returns tasks in status, oldest first.
func (r *TaskRepository) ListTasksByStatus(ctx context.Context, status core.TaskStatus) ([]*core.TaskRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM match_tasks WHERE status = $1 ORDER BY created_at, task_id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("postgres: list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*core.TaskRecord{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) exists(ctx context.Context, id core.TaskID) error {
	var found bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM match_tasks WHERE task_id = $1)`, string(id)).Scan(&found); err != nil {
		return fmt.Errorf("postgres: lookup task: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: task %s", core.ErrNotFound, id)
	}
	return nil
}

func scanTask(row pgx.Row) (*core.TaskRecord, error) {
	var (
		task                     core.TaskRecord
		id, status               string
		steps, result, taskError []byte
	)
	err := row.Scan(&id, &task.UserID, &status, &task.Phase, &steps, &result, &taskError,
		&task.CreatedAt, &task.UpdatedAt, &task.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres: scan task: %w", err)
	}
	task.ID = core.TaskID(id)
	task.Status = core.TaskStatus(status)

	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &task.Steps); err != nil {
			return nil, fmt.Errorf("%w: task steps: %w", storage.ErrSerializationFailed, err)
		}
		if len(task.Steps) == 0 {
			task.Steps = nil
		}
	}
	if len(result) > 0 {
		if task.Result, err = decodeJSON[core.MatchResult](result); err != nil {
			return nil, err
		}
	}
	if len(taskError) > 0 {
		if task.Error, err = decodeJSON[core.TaskError](taskError); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

// marshalNullable encodes v as JSON, or returns nil for a nil pointer so
// the column is stored as NULL.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return data, nil
}

// decodeJSON decodes a JSONB column value.
func decodeJSON[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return &v, nil
}
