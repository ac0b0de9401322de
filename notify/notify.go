package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/matchmaker/core"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Event announces that a task reached a terminal state.
type Event struct {
	TaskID core.TaskID       `json:"task_id"`
	UserID string            `json:"user_id"`
	Status core.TaskStatus   `json:"status"`
	Result *core.MatchResult `json:"result,omitempty"`
	Error  *core.TaskError   `json:"error,omitempty"`
	At     time.Time         `json:"at"`
}

// Publisher delivers events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// Topic returns the topic on which a user's match updates are published.
func Topic(userID string) string {
	return "match_updates_" + userID
}

// Broker is an in-process Publisher that fans events out to subscriber
// channels. Publishing never blocks: a subscriber whose buffer is full
// misses the event.
type Broker struct {
	mu      sync.RWMutex
	subs    map[string][]chan Event
	buffer  int
	dropped atomic.Int64
	logger  *slog.Logger
}

var _ Publisher = (*Broker)(nil)

// NewBroker creates a broker. A nil logger uses slog.Default().
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:   make(map[string][]chan Event),
		buffer: DefaultBuffer,
		logger: logger.With("component", "notify"),
	}
}

// Publish sends event to every subscriber of topic.
func (b *Broker) Publish(_ context.Context, topic string, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber buffer full, dropping event", "topic", topic, "task_id", event.TaskID)
		}
	}
	return nil
}

// Subscribe returns a channel that receives events published to topic.
func (b *Broker) Subscribe(topic string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, b.buffer)
	b.subs[topic] = append(b.subs[topic], ch)
	return ch
}

// Unsubscribe removes ch from topic and closes it.
func (b *Broker) Unsubscribe(topic string, ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s == ch {
			b.subs[topic] = append(subs[:i], subs[i+1:]...)
			close(s)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Subscribers returns the number of subscribers of topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Dropped returns the number of events dropped because a subscriber was full.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subs, topic)
	}
}
