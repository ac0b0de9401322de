package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCommunities(t *testing.T, repo *CommunityRepository) {
	t.Helper()
	require.NoError(t, repo.PutCommunities(context.Background(),
		&core.Community{ID: "comm_001", Name: "Trail Runners", Category: "fitness", MemberCount: 120, City: "Bangalore", Timezone: "Asia/Kolkata"},
		&core.Community{ID: "comm_002", Name: "Chess Club", Category: "games", MemberCount: 300, City: "Bangalore", Timezone: "Asia/Kolkata"},
		&core.Community{ID: "comm_003", Name: "Pune Cyclists", Category: "fitness", MemberCount: 300, City: "Pune", Timezone: "Asia/Kolkata"},
		&core.Community{ID: "comm_004", Name: "Night Owls", Category: "social", MemberCount: 50, City: "Bangalore", Timezone: "UTC"},
	))
}

func TestFindCommunityIDsByLocation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Communities()
	seedCommunities(t, repo)

	ids, err := repo.FindCommunityIDsByLocation(ctx, "Bangalore", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, []string{"comm_001", "comm_002"}, ids, "city and timezone must both match")

	ids, err = repo.FindCommunityIDsByLocation(ctx, "Atlantis", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)

	// Prefix of a city name must not match.
	ids, err = repo.FindCommunityIDsByLocation(ctx, "Bang", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPutCommunities_MovesLocationIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Communities()
	seedCommunities(t, repo)

	original, err := repo.GetCommunity(ctx, "comm_001")
	require.NoError(t, err)

	moved := *original
	moved.City = "Pune"
	moved.CreatedAt = time.Time{}
	require.NoError(t, repo.PutCommunities(ctx, &moved))

	ids, err := repo.FindCommunityIDsByLocation(ctx, "Bangalore", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, []string{"comm_002"}, ids)

	ids, err = repo.FindCommunityIDsByLocation(ctx, "Pune", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, []string{"comm_001", "comm_003"}, ids)

	got, err := repo.GetCommunity(ctx, "comm_001")
	require.NoError(t, err)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt), "created timestamp survives updates")
}

func TestPutCommunities_Invalid(t *testing.T) {
	store := newTestStore(t)
	err := store.Communities().PutCommunities(context.Background(), &core.Community{Name: "no id"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestGetCommunities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Communities()
	seedCommunities(t, repo)

	got, err := repo.GetCommunities(ctx, "comm_003", "missing", "comm_001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "comm_003", got[0].ID)
	assert.Equal(t, "comm_001", got[1].ID)

	_, err = repo.GetCommunity(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPopularCommunities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Communities()
	seedCommunities(t, repo)

	popular, err := repo.PopularCommunities(ctx, 3)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, "comm_002", popular[0].ID, "ties on member count break by id")
	assert.Equal(t, "comm_003", popular[1].ID)
	assert.Equal(t, "comm_001", popular[2].ID)

	_, err = repo.PopularCommunities(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Memberships()

	created, err := repo.Join(ctx, &core.Membership{CommunityID: "comm_001", UserID: "user_1", AutoJoined: true, TaskID: "task_a"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Join(ctx, &core.Membership{CommunityID: "comm_001", UserID: "user_1", TaskID: "task_b"})
	require.NoError(t, err)
	assert.False(t, created, "joining twice is a no-op")

	members, err := repo.ListMembers(ctx, "comm_001")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, core.TaskID("task_a"), members[0].TaskID)
	assert.True(t, members[0].AutoJoined)

	ok, err := repo.IsMember(ctx, "comm_001", "user_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsMember(ctx, "comm_002", "user_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Profiles()

	_, err := repo.GetProfile(ctx, "user_1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, repo.SaveProfile(ctx, &core.UserProfile{UserID: "user_1", SanitizedBio: "first", Tags: []string{"a"}}))
	require.NoError(t, repo.SaveProfile(ctx, &core.UserProfile{UserID: "user_1", SanitizedBio: "second"}))

	got, err := repo.GetProfile(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.SanitizedBio)
	assert.Empty(t, got.Tags, "profiles are superseded, not merged")
}
