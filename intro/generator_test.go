package intro

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/matchmaker/ai/mock"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *badger.Store
	composer *mock.MockComposer
	scorer   *mock.MockSafetyScorer
	gen      *Generator
	task     *core.TaskRecord
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Communities().PutCommunities(ctx, &core.Community{
		ID: "comm_001", Name: "Trail Runners", Category: "fitness", Description: "Weekend trail runs around the city.",
		City: "Bangalore", Timezone: "Asia/Kolkata",
	}))

	task, err := store.Tasks().CreateTask(ctx, "user_new")
	require.NoError(t, err)
	task, err = store.Tasks().TransitionTask(ctx, task.ID, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		composer: mock.NewMockComposer(),
		scorer:   mock.NewMockSafetyScorer(),
		task:     task,
	}
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	f.gen, err = NewGenerator(store.Tasks(), store.Communities(), store.Memberships(), store.Activity(), f.composer, f.scorer, opts...)
	require.NoError(t, err)
	return f
}

func (f *fixture) activeAt(t *testing.T, userID string, ago time.Duration) {
	t.Helper()
	require.NoError(t, f.store.Activity().RecordActivity(context.Background(), "comm_001", userID, testNow.Add(-ago)))
}

func (f *fixture) request() Request {
	return Request{Task: f.task, CommunityID: "comm_001", SanitizedBio: "Loves trail running and coffee."}
}

func (f *fixture) reloadTask(t *testing.T) *core.TaskRecord {
	t.Helper()
	task, err := f.store.Tasks().GetTask(context.Background(), f.task.ID)
	require.NoError(t, err)
	return task
}

func TestRun_JoinsAndPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.activeAt(t, "user_a", time.Hour)
	f.activeAt(t, "user_b", 2*time.Hour)

	outcome, err := f.gen.Run(ctx, f.request())
	require.NoError(t, err)
	assert.True(t, outcome.Joined)
	assert.True(t, outcome.IntroGenerated)
	assert.False(t, outcome.IntroDowngraded)
	assert.False(t, outcome.RosterEmpty)
	require.NotNil(t, outcome.SafetyScore)
	assert.Equal(t, 0.05, *outcome.SafetyScore)

	member, err := f.store.Memberships().IsMember(ctx, "comm_001", "user_new")
	require.NoError(t, err)
	assert.True(t, member)

	msgs, err := f.store.Activity().ListMessages(ctx, "comm_001")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "intro:"+string(f.task.ID), msgs[0].ID)
	assert.Equal(t, core.MessageKindIntroduction, msgs[0].Kind)
	assert.Equal(t, []string{"user_a", "user_b"}, msgs[0].Mentions)
	assert.Contains(t, msgs[0].Text, "@user_a")

	stored := f.reloadTask(t)
	assert.True(t, stored.StepDone(core.StepAutoJoin))
	assert.True(t, stored.StepDone(core.StepIntroPosted))
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.activeAt(t, "user_a", time.Hour)

	_, err := f.gen.Run(ctx, f.request())
	require.NoError(t, err)

	// Replay with the task as stored, as recovery would.
	again, err := f.gen.Run(ctx, Request{Task: f.reloadTask(t), CommunityID: "comm_001", SanitizedBio: "x"})
	require.NoError(t, err)
	assert.False(t, again.Joined)
	assert.True(t, again.IntroGenerated)
	assert.Equal(t, 1, f.composer.CallCount())
	assert.Equal(t, 1, f.scorer.CallCount())

	msgs, err := f.store.Activity().ListMessages(ctx, "comm_001")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	members, err := f.store.Memberships().ListMembers(ctx, "comm_001")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestRun_IdempotentWithoutMarkers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gen.Run(ctx, f.request())
	require.NoError(t, err)

	// Markers lost: the stores still prevent a second join or post.
	fresh := *f.task
	fresh.Steps = nil
	again, err := f.gen.Run(ctx, Request{Task: &fresh, CommunityID: "comm_001", SanitizedBio: "x"})
	require.NoError(t, err)
	assert.False(t, again.Joined)

	msgs, err := f.store.Activity().ListMessages(ctx, "comm_001")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestIntroduce_RosterSelection(t *testing.T) {
	f := newFixture(t, WithRoster(2, 24*time.Hour))
	f.activeAt(t, "user_new", time.Minute)
	f.activeAt(t, "user_a", time.Hour)
	f.activeAt(t, "user_b", 2*time.Hour)
	f.activeAt(t, "user_c", 3*time.Hour)
	f.activeAt(t, "user_stale", 48*time.Hour)

	outcome, err := f.gen.Introduce(context.Background(), f.request())
	require.NoError(t, err)
	assert.True(t, outcome.IntroGenerated)

	msgs, err := f.store.Activity().ListMessages(context.Background(), "comm_001")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"user_a", "user_b"}, msgs[0].Mentions, "excludes the new member and caps the roster")
}

func TestIntroduce_EmptyRosterNotFatal(t *testing.T) {
	f := newFixture(t)
	f.activeAt(t, "user_old", 30*24*time.Hour)

	outcome, err := f.gen.Introduce(context.Background(), f.request())
	require.NoError(t, err)
	assert.True(t, outcome.RosterEmpty)
	assert.True(t, outcome.IntroGenerated)

	msgs, err := f.store.Activity().ListMessages(context.Background(), "comm_001")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Mentions)
	assert.NotContains(t, f.composer.Prompts()[0], "@handle")
}

func TestIntroduce_TrimsToThreeSentences(t *testing.T) {
	f := newFixture(t)
	f.composer.ComposeFunc = func(context.Context, string, []string) (string, error) {
		return "Welcome! Meet @user_a. You both run trails. Coffee after? See you soon.", nil
	}

	_, err := f.gen.Introduce(context.Background(), f.request())
	require.NoError(t, err)

	msgs, err := f.store.Activity().ListMessages(context.Background(), "comm_001")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome! Meet @user_a. You both run trails.", msgs[0].Text)
}

func TestIntroduce_AddsMissingMention(t *testing.T) {
	f := newFixture(t)
	f.activeAt(t, "user_a", time.Hour)
	f.activeAt(t, "user_b", 2*time.Hour)
	f.composer.ComposeFunc = func(context.Context, string, []string) (string, error) {
		return "Welcome aboard! You will love the weekend runs. See you on the trail. Bring water.", nil
	}

	_, err := f.gen.Introduce(context.Background(), f.request())
	require.NoError(t, err)

	msgs, err := f.store.Activity().ListMessages(context.Background(), "comm_001")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome aboard! You will love the weekend runs. See you on the trail, say hi to @user_a!", msgs[0].Text)
	assert.Equal(t, []string{"user_a", "user_b"}, msgs[0].Mentions)
}

func TestEnsureMention(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		roster []string
		want   string
	}{
		{"empty roster", "Welcome!", nil, "Welcome!"},
		{"already mentioned", "Welcome! Meet @user_b.", []string{"user_a", "user_b"}, "Welcome! Meet @user_b."},
		{"prefix of another handle", "Meet @user_ab.", []string{"user_a"}, "Meet @user_ab, say hi to @user_a!"},
		{"missing", "Welcome aboard.", []string{"user_a"}, "Welcome aboard, say hi to @user_a!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ensureMention(tt.text, tt.roster))
		})
	}
}

func TestIntroduce_SafetyDowngrade(t *testing.T) {
	tests := []struct {
		score     float64
		downgrade bool
	}{
		{0.76, true},
		{0.75, false},
		{0.10, false},
	}
	for _, tt := range tests {
		f := newFixture(t)
		f.scorer.Score = tt.score

		outcome, err := f.gen.Run(context.Background(), f.request())
		require.NoError(t, err, "score %v", tt.score)
		assert.Equal(t, tt.downgrade, outcome.IntroDowngraded, "score %v", tt.score)
		assert.Equal(t, !tt.downgrade, outcome.IntroGenerated, "score %v", tt.score)

		msgs, err := f.store.Activity().ListMessages(context.Background(), "comm_001")
		require.NoError(t, err)
		if tt.downgrade {
			assert.Empty(t, msgs)
			assert.True(t, f.reloadTask(t).StepDone(core.StepIntroDowngraded))
		} else {
			assert.Len(t, msgs, 1)
		}

		member, err := f.store.Memberships().IsMember(context.Background(), "comm_001", "user_new")
		require.NoError(t, err)
		assert.True(t, member, "join is kept regardless of the intro outcome")
	}
}

func TestRun_ComposerFailureKeepsJoin(t *testing.T) {
	f := newFixture(t)
	f.composer.ComposeFunc = func(context.Context, string, []string) (string, error) {
		return "", errors.New("model offline")
	}

	_, err := f.gen.Run(context.Background(), f.request())
	var ce *core.CollaboratorError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, core.KindLanguageModel, ce.Kind)

	member, err := f.store.Memberships().IsMember(context.Background(), "comm_001", "user_new")
	require.NoError(t, err)
	assert.True(t, member)
	assert.True(t, f.reloadTask(t).StepDone(core.StepAutoJoin))
	assert.False(t, f.reloadTask(t).StepDone(core.StepIntroPosted))
}

func TestIntroduce_Failures(t *testing.T) {
	t.Run("blank composition", func(t *testing.T) {
		f := newFixture(t)
		f.composer.ComposeFunc = func(context.Context, string, []string) (string, error) { return "   ", nil }
		_, err := f.gen.Introduce(context.Background(), f.request())
		assert.ErrorIs(t, err, core.ErrCollaboratorUnavailable)
	})

	t.Run("scorer failure", func(t *testing.T) {
		f := newFixture(t)
		f.scorer.SafetyScoreFunc = func(context.Context, string) (float64, error) { return 0, errors.New("boom") }
		_, err := f.gen.Introduce(context.Background(), f.request())
		var ce *core.CollaboratorError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, core.KindLanguageModel, ce.Kind)
	})

	t.Run("unknown community", func(t *testing.T) {
		f := newFixture(t)
		req := f.request()
		req.CommunityID = "comm_missing"
		_, err := f.gen.Introduce(context.Background(), req)
		assert.ErrorIs(t, err, core.ErrNotFound)
		var ce *core.CollaboratorError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, core.KindRelationalStore, ce.Kind)
	})
}

func TestNewGenerator_Validation(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	c, s := mock.NewMockComposer(), mock.NewMockSafetyScorer()

	_, err = NewGenerator(nil, store.Communities(), store.Memberships(), store.Activity(), c, s)
	assert.ErrorIs(t, err, ErrTaskRepositoryRequired)
	_, err = NewGenerator(store.Tasks(), store.Communities(), store.Memberships(), store.Activity(), nil, s)
	assert.ErrorIs(t, err, ErrComposerRequired)
	_, err = NewGenerator(store.Tasks(), store.Communities(), store.Memberships(), store.Activity(), c, nil)
	assert.ErrorIs(t, err, ErrSafetyScorerRequired)
	_, err = NewGenerator(store.Tasks(), store.Communities(), store.Memberships(), store.Activity(), c, s, WithSafetyThreshold(1.5))
	assert.Error(t, err)
}

func TestMention(t *testing.T) {
	assert.Equal(t, "@user_a", Mention("user_a"))
	assert.True(t, strings.HasPrefix(MessageID("task_1"), "intro:"))
}
