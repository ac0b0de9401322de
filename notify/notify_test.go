package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/matchmaker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "match_updates_user_1", Topic("user_1"))
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker(nil)
	first := b.Subscribe(Topic("u1"))
	second := b.Subscribe(Topic("u1"))
	other := b.Subscribe(Topic("u2"))

	event := Event{TaskID: "task_1", UserID: "u1", Status: core.TaskCompleted}
	require.NoError(t, b.Publish(context.Background(), Topic("u1"), event))

	assert.Equal(t, event, <-first)
	assert.Equal(t, event, <-second)
	assert.Empty(t, other)
}

func TestBroker_PublishWithoutSubscribers(t *testing.T) {
	b := NewBroker(nil)
	assert.NoError(t, b.Publish(context.Background(), "nobody", Event{}))
}

func TestBroker_FullSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(nil)
	ch := b.Subscribe("t")
	for i := 0; i < DefaultBuffer+3; i++ {
		require.NoError(t, b.Publish(context.Background(), "t", Event{TaskID: core.TaskID("task")}))
	}
	assert.Len(t, ch, DefaultBuffer)
	assert.Equal(t, int64(3), b.Dropped())
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(nil)
	ch := b.Subscribe("t")
	assert.Equal(t, 1, b.Subscribers("t"))

	b.Unsubscribe("t", ch)
	assert.Zero(t, b.Subscribers("t"))
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, b.Publish(context.Background(), "t", Event{}))
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(nil)
	a := b.Subscribe("a")
	c := b.Subscribe("c")
	b.Close()
	_, open := <-a
	assert.False(t, open)
	_, open = <-c
	assert.False(t, open)
}

func TestBroker_ConcurrentPublish(t *testing.T) {
	b := NewBroker(nil)
	ch := b.Subscribe("t")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Publish(context.Background(), "t", Event{})
		}()
	}
	wg.Wait()
	assert.Len(t, ch, 8)
}
