package badger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/matchmaker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, core.TaskPending, task.Status)
	assert.Equal(t, core.PhaseQueued, task.Phase)
	assert.Nil(t, task.Result)
	assert.Nil(t, task.Error)
	assert.Nil(t, task.CompletedAt)

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "user_1", got.UserID)
}

func TestCreateTask_EmptyUser(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Tasks().CreateTask(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCreateTask_DuplicateWhileActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	first, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)

	_, err = repo.CreateTask(ctx, "user_1")
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission)

	_, err = repo.TransitionTask(ctx, first.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)

	_, err = repo.CreateTask(ctx, "user_1")
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission, "processing tasks also block resubmission")

	_, err = repo.CreateTask(ctx, "user_2")
	assert.NoError(t, err, "other users are unaffected")

	_, err = repo.TransitionTask(ctx, first.ID, core.TaskProcessing, core.TaskCompleted,
		core.TaskUpdate{Result: &core.MatchResult{Tier: core.TierFallback}})
	require.NoError(t, err)

	second, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err, "terminal tasks release the user")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateTask_ConcurrentSubmissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateTask(ctx, "user_race")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, core.ErrDuplicateSubmission), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, created)

	pending, err := repo.ListTasksByStatus(ctx, core.TaskPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestTransitionTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)

	processing, err := repo.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)
	assert.Equal(t, core.TaskProcessing, processing.Status)

	// Stale compare-and-set loses.
	_, err = repo.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	failed, err := repo.TransitionTask(ctx, task.ID, core.TaskProcessing, core.TaskFailed,
		core.TaskUpdate{Error: &core.TaskError{Code: core.CodeTimeout, Message: "deadline"}})
	require.NoError(t, err)
	assert.Equal(t, core.TaskFailed, failed.Status)
	require.NotNil(t, failed.CompletedAt)
	assert.Nil(t, failed.Result)

	// Terminal states are final.
	_, err = repo.TransitionTask(ctx, task.ID, core.TaskFailed, core.TaskCompleted,
		core.TaskUpdate{Result: &core.MatchResult{}})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskFailed, got.Status)
	assert.Equal(t, core.CodeTimeout, got.Error.Code)
}

func TestTransitionTask_InvalidMoves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)

	_, err = repo.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskCompleted,
		core.TaskUpdate{Result: &core.MatchResult{}})
	assert.ErrorIs(t, err, core.ErrInvalidTransition, "pending cannot skip processing")

	_, err = repo.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)

	_, err = repo.TransitionTask(ctx, task.ID, core.TaskProcessing, core.TaskCompleted, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrInvalidTransition, "completed requires a result")

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskProcessing, got.Status, "rejected transitions leave the task unchanged")
}

func TestTransitionTask_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Tasks().TransitionTask(ctx, "task_missing", core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = store.Tasks().GetTask(ctx, "task_missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTransitionTask_ConcurrentCAS(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, core.ErrInvalidTransition)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestTaskStepsAndPhase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.CreateTask(ctx, "user_1")
	require.NoError(t, err)

	require.NoError(t, repo.SetTaskPhase(ctx, task.ID, core.PhaseSanitization))
	require.NoError(t, repo.MarkTaskStep(ctx, task.ID, core.StepAutoJoin))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, core.PhaseSanitization, got.Phase)
	require.True(t, got.StepDone(core.StepAutoJoin))
	firstMark := got.Steps[core.StepAutoJoin]

	require.NoError(t, repo.MarkTaskStep(ctx, task.ID, core.StepAutoJoin))
	got, err = repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, firstMark, got.Steps[core.StepAutoJoin], "re-marking keeps the original timestamp")

	assert.ErrorIs(t, repo.MarkTaskStep(ctx, "task_missing", core.StepAutoJoin), core.ErrNotFound)
}

func TestListTasksByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	a, err := repo.CreateTask(ctx, "user_a")
	require.NoError(t, err)
	b, err := repo.CreateTask(ctx, "user_b")
	require.NoError(t, err)
	_, err = repo.TransitionTask(ctx, b.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)

	pending, err := repo.ListTasksByStatus(ctx, core.TaskPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	processing, err := repo.ListTasksByStatus(ctx, core.TaskProcessing)
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, b.ID, processing[0].ID)
}
