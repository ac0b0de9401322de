package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"task_id", "user_id", "status", "phase", "steps", "result", "error", "created_at", "updated_at", "completed_at"}

var communityCols = []string{"community_id", "name", "category", "description", "member_count", "city", "timezone", "embedding_id", "created_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestEnsureSchema(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS match_tasks").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaEnforcesOneActiveTaskPerUser(t *testing.T) {
	assert.Contains(t, schema, "CREATE UNIQUE INDEX IF NOT EXISTS match_tasks_one_active_per_user")
	assert.Contains(t, schema, "WHERE status IN ('pending', 'processing')")
	assert.Contains(t, schema, "PRIMARY KEY (community_id, user_id)")
}

func TestTaskRepository_CreateTask(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectExec("INSERT INTO match_tasks").
		WithArgs(pgxmock.AnyArg(), "user_1", "pending", core.PhaseQueued, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	task, err := store.Tasks().CreateTask(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, core.TaskPending, task.Status)
	assert.Equal(t, core.PhaseQueued, task.Phase)
	assert.Regexp(t, "^task_[0-9a-f]{32}$", string(task.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CreateTaskDuplicate(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectExec("INSERT INTO match_tasks").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "match_tasks_one_active_per_user"})

	_, err := store.Tasks().CreateTask(context.Background(), "user_1")
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CreateTaskEmptyUser(t *testing.T) {
	mock, store := newMock(t)

	_, err := store.Tasks().CreateTask(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetTask(t *testing.T) {
	mock, store := newMock(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := now.Add(time.Second)
	result := []byte(`{"task_id":"task_1","user_id":"user_1","tier":"explorer","action":{"kind":"present_options"},"matches":[{"community_id":"c1","community_name":"Chess","category":"games","member_count":3,"match_score":0.7}]}`)

	mock.ExpectQuery("FROM match_tasks WHERE task_id").
		WithArgs("task_1").
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
			"task_1", "user_1", "completed", core.PhaseDone,
			[]byte(`{"auto_join":"2025-03-01T12:00:00Z"}`), result, nil,
			now, completed, &completed))

	task, err := store.Tasks().GetTask(context.Background(), "task_1")
	require.NoError(t, err)
	assert.Equal(t, core.TaskCompleted, task.Status)
	assert.True(t, task.StepDone(core.StepAutoJoin))
	require.NotNil(t, task.Result)
	require.Len(t, task.Result.Matches, 1)
	assert.Equal(t, "c1", task.Result.Matches[0].CommunityID)
	assert.Nil(t, task.Error)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, completed, *task.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetTaskNotFound(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectQuery("FROM match_tasks WHERE task_id").
		WillReturnRows(pgxmock.NewRows(taskCols))

	_, err := store.Tasks().GetTask(context.Background(), "task_missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TransitionTask(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE match_tasks\s+SET status`).
		WithArgs("processing", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "", "task_1", "pending").
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
			"task_1", "user_1", "processing", core.PhaseQueued,
			[]byte(`{}`), nil, nil, now, now, nil))

	task, err := store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)
	assert.Equal(t, core.TaskProcessing, task.Status)
	assert.Nil(t, task.Steps)
	assert.Nil(t, task.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TransitionTaskToFailed(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE match_tasks\s+SET status`).
		WithArgs("failed", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), core.PhaseDone, "task_1", "processing").
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
			"task_1", "user_1", "failed", core.PhaseDone,
			[]byte(`{}`), nil, []byte(`{"code":"timeout","message":"task timed out"}`), now, now, &now))

	update := core.TaskUpdate{Error: &core.TaskError{Code: core.CodeTimeout, Message: "task timed out"}}
	task, err := store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskProcessing, core.TaskFailed, update)
	require.NoError(t, err)
	require.NotNil(t, task.Error)
	assert.Equal(t, core.CodeTimeout, task.Error.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TransitionTaskStale(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE match_tasks\s+SET status`).
		WillReturnRows(pgxmock.NewRows(taskCols))
	mock.ExpectQuery("FROM match_tasks WHERE task_id").
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
			"task_1", "user_1", "processing", core.PhaseVectorization,
			[]byte(`{}`), nil, nil, now, now, nil))

	_, err := store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TransitionTaskMissing(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectQuery(`UPDATE match_tasks\s+SET status`).
		WillReturnRows(pgxmock.NewRows(taskCols))
	mock.ExpectQuery("FROM match_tasks WHERE task_id").
		WillReturnRows(pgxmock.NewRows(taskCols))

	_, err := store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TransitionTaskRejectsInvalidPayload(t *testing.T) {
	mock, store := newMock(t)

	_, err := store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskProcessing, core.TaskCompleted, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = store.Tasks().TransitionTask(context.Background(), "task_1", core.TaskCompleted, core.TaskProcessing, core.TaskUpdate{})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_SetTaskPhase(t *testing.T) {
	t.Run("active task", func(t *testing.T) {
		mock, store := newMock(t)
		mock.ExpectExec("UPDATE match_tasks SET phase").
			WithArgs(core.PhaseSanitization, pgxmock.AnyArg(), "task_1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, store.Tasks().SetTaskPhase(context.Background(), "task_1", core.PhaseSanitization))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal task is left alone", func(t *testing.T) {
		mock, store := newMock(t)
		mock.ExpectExec("UPDATE match_tasks SET phase").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("task_1").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, store.Tasks().SetTaskPhase(context.Background(), "task_1", core.PhaseSanitization))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing task", func(t *testing.T) {
		mock, store := newMock(t)
		mock.ExpectExec("UPDATE match_tasks SET phase").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		err := store.Tasks().SetTaskPhase(context.Background(), "task_1", core.PhaseSanitization)
		assert.ErrorIs(t, err, core.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_MarkTaskStep(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectExec("UPDATE match_tasks SET steps").
		WithArgs(core.StepAutoJoin, pgxmock.AnyArg(), "task_1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE match_tasks SET steps").
		WithArgs(core.StepAutoJoin, pgxmock.AnyArg(), "task_1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, store.Tasks().MarkTaskStep(context.Background(), "task_1", core.StepAutoJoin))
	require.NoError(t, store.Tasks().MarkTaskStep(context.Background(), "task_1", core.StepAutoJoin), "marking twice is not an error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListTasksByStatus(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM match_tasks WHERE status").
		WithArgs("pending").
		WillReturnRows(pgxmock.NewRows(taskCols).
			AddRow("task_1", "user_1", "pending", core.PhaseQueued, []byte(`{}`), nil, nil, now, now, nil).
			AddRow("task_2", "user_2", "pending", core.PhaseQueued, []byte(`{}`), nil, nil, now.Add(time.Second), now, nil))

	tasks, err := store.Tasks().ListTasksByStatus(context.Background(), core.TaskPending)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, core.TaskID("task_1"), tasks[0].ID)
	assert.Equal(t, core.TaskID("task_2"), tasks[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListTasksByStatusQueryError(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectQuery("FROM match_tasks WHERE status").
		WillReturnError(errors.New("connection reset"))

	_, err := store.Tasks().ListTasksByStatus(context.Background(), core.TaskPending)
	assert.ErrorContains(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_PutCommunities(t *testing.T) {
	mock, store := newMock(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &core.Community{ID: "c1", Name: "Chess", Category: "games", City: "Bangalore", Timezone: "Asia/Kolkata", MemberCount: 3}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO communities").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	require.NoError(t, store.Communities().PutCommunities(context.Background(), c))
	assert.Equal(t, created, c.CreatedAt, "an existing row keeps its created_at")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_PutCommunitiesValidates(t *testing.T) {
	mock, store := newMock(t)

	err := store.Communities().PutCommunities(context.Background(), &core.Community{Name: "No id"})
	assert.ErrorIs(t, err, core.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_PutCommunitiesRollsBack(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO communities").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Communities().PutCommunities(context.Background(), &core.Community{ID: "c1", Name: "Chess"})
	assert.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_GetCommunity(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM communities WHERE community_id = ").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(communityCols).
			AddRow("c1", "Chess", "games", "Weekly games", 3, "Bangalore", "Asia/Kolkata", "c1", now))
	mock.ExpectQuery("FROM communities WHERE community_id = ").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(communityCols))

	c, err := store.Communities().GetCommunity(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Chess", c.Name)
	assert.Equal(t, 3, c.MemberCount)

	_, err = store.Communities().GetCommunity(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_GetCommunitiesKeepsInputOrder(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("community_id = ANY").
		WithArgs([]string{"c2", "gone", "c1"}).
		WillReturnRows(pgxmock.NewRows(communityCols).
			AddRow("c1", "Chess", "games", "", 3, "", "", "", now).
			AddRow("c2", "Hiking", "outdoors", "", 9, "", "", "", now))

	got, err := store.Communities().GetCommunities(context.Background(), "c2", "gone", "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.Equal(t, "c1", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_GetCommunitiesEmpty(t *testing.T) {
	mock, store := newMock(t)

	got, err := store.Communities().GetCommunities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_FindCommunityIDsByLocation(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectQuery("WHERE city = ").
		WithArgs("Bangalore", "Asia/Kolkata").
		WillReturnRows(pgxmock.NewRows([]string{"community_id"}).AddRow("c1").AddRow("c3"))
	mock.ExpectQuery("WHERE city = ").
		WithArgs("Nowhere", "UTC").
		WillReturnRows(pgxmock.NewRows([]string{"community_id"}))

	ids, err := store.Communities().FindCommunityIDsByLocation(context.Background(), "Bangalore", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3"}, ids)

	ids, err = store.Communities().FindCommunityIDsByLocation(context.Background(), "Nowhere", "UTC")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_PopularCommunities(t *testing.T) {
	mock, store := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY member_count DESC, community_id LIMIT").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(communityCols).
			AddRow("c2", "Hiking", "outdoors", "", 90, "", "", "", now).
			AddRow("c1", "Chess", "games", "", 30, "", "", "", now))

	got, err := store.Communities().PopularCommunities(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)

	_, err = store.Communities().PopularCommunities(context.Background(), 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Join(t *testing.T) {
	mock, store := newMock(t)
	mock.ExpectExec("INSERT INTO community_members").
		WithArgs("c1", "user_1", pgxmock.AnyArg(), true, "task_1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO community_members").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	m := &core.Membership{CommunityID: "c1", UserID: "user_1", AutoJoined: true, TaskID: "task_1"}
	created, err := store.Memberships().Join(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, m.JoinedAt.IsZero())

	created, err = store.Memberships().Join(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_IsMemberAndList(t *testing.T) {
	mock, store := newMock(t)
	joined := time.Now().UTC()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("c1", "user_1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM community_members WHERE community_id").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"community_id", "user_id", "joined_at", "auto_joined", "task_id"}).
			AddRow("c1", "user_1", joined, true, "task_1").
			AddRow("c1", "user_2", joined, false, ""))

	ok, err := store.Memberships().IsMember(context.Background(), "c1", "user_1")
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := store.Memberships().ListMembers(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, core.TaskID("task_1"), members[0].TaskID)
	assert.False(t, members[1].AutoJoined)
	require.NoError(t, mock.ExpectationsWereMet())
}
