package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/matchmaker/ai/mock"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage/badger"
	"github.com/stretchr/testify/require"
)

const testDims = 8

func setupTestStore(t *testing.T) *badger.Store {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestEmbedder() *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.Dimensions = testDims
	return e
}

func testCommunities(n int) []*core.Community {
	out := make([]*core.Community, n)
	for i := range out {
		out[i] = &core.Community{
			ID:          fmt.Sprintf("c%02d", i),
			Name:        fmt.Sprintf("Community %d", i),
			Category:    "hobby",
			Description: "people who meet on weekends",
			City:        "Bangalore",
			Timezone:    "Asia/Kolkata",
			MemberCount: i,
		}
	}
	return out
}

func seedCatalog(t *testing.T, store *badger.Store, n int) []*core.Community {
	t.Helper()
	communities := testCommunities(n)
	require.NoError(t, store.Communities().PutCommunities(context.Background(), communities...))
	return communities
}
