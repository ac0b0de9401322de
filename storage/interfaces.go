package storage

import (
	"context"
	"time"

	"github.com/poiesic/matchmaker/core"
)

// TaskRepository is the durable task state machine.
// Implementations must be thread-safe and make TransitionTask atomic per task id.
type TaskRepository interface {
	// CreateTask creates a pending task for userID.
	// Returns core.ErrDuplicateSubmission if the user already has a pending
	// or processing task.
	CreateTask(ctx context.Context, userID string) (*core.TaskRecord, error)

	// GetTask retrieves a task by ID. It never waits on pipeline progress.
	// Returns core.ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, id core.TaskID) (*core.TaskRecord, error)

	// TransitionTask moves a task from `from` to `to` and applies the update,
	// as a compare-and-set on the current status.
	// Returns core.ErrInvalidTransition if the move is not allowed, the
	// current status is not `from`, or the payload violates the task invariants.
	// Returns core.ErrNotFound if the task doesn't exist.
	TransitionTask(ctx context.Context, id core.TaskID, from, to core.TaskStatus, update core.TaskUpdate) (*core.TaskRecord, error)

	// SetTaskPhase records the pipeline phase of a processing task.
	SetTaskPhase(ctx context.Context, id core.TaskID, phase string) error

	// MarkTaskStep records that a side-effecting step has committed.
	// Marking an already marked step keeps the original timestamp.
	MarkTaskStep(ctx context.Context, id core.TaskID, step string) error

	// ListTasksByStatus returns all tasks currently in status, oldest first.
	ListTasksByStatus(ctx context.Context, status core.TaskStatus) ([]*core.TaskRecord, error)
}

// CommunityRepository provides read access to the community catalog plus
// the administrative writes used for seeding.
type CommunityRepository interface {
	// PutCommunities inserts or replaces communities.
	PutCommunities(ctx context.Context, communities ...*core.Community) error

	// GetCommunity retrieves a single community.
	// Returns core.ErrNotFound if the community doesn't exist.
	GetCommunity(ctx context.Context, id string) (*core.Community, error)

	// GetCommunities retrieves multiple communities by ID.
	// Returns only the communities that exist (no error for missing ones).
	GetCommunities(ctx context.Context, ids ...string) ([]*core.Community, error)

	// FindCommunityIDsByLocation returns the ids of communities whose city
	// and timezone both match exactly.
	FindCommunityIDsByLocation(ctx context.Context, city, timezone string) ([]string, error)

	// PopularCommunities returns up to limit communities ordered by member
	// count descending, ties broken by id.
	PopularCommunities(ctx context.Context, limit int) ([]*core.Community, error)

	// ListCommunities returns every community ordered by id.
	ListCommunities(ctx context.Context) ([]*core.Community, error)
}

// MembershipRepository records community memberships.
type MembershipRepository interface {
	// Join adds the membership if absent. Returns created=false when the
	// user was already a member; the stored membership is left unchanged.
	Join(ctx context.Context, membership *core.Membership) (created bool, err error)

	// IsMember reports whether userID belongs to communityID.
	IsMember(ctx context.Context, communityID, userID string) (bool, error)

	// ListMembers returns the memberships of a community.
	ListMembers(ctx context.Context, communityID string) ([]*core.Membership, error)
}

// ProfileRepository stores the latest derived profile per user.
type ProfileRepository interface {
	// SaveProfile replaces any existing profile for the user.
	SaveProfile(ctx context.Context, profile *core.UserProfile) error

	// GetProfile returns core.ErrNotFound if the user has no profile.
	GetProfile(ctx context.Context, userID string) (*core.UserProfile, error)
}

// ActivityLog tracks member activity and community messages.
type ActivityLog interface {
	// RecentlyActive returns up to limit members of communityID active at or
	// after since, most recent first.
	RecentlyActive(ctx context.Context, communityID string, since time.Time, limit int) ([]core.ActiveMember, error)

	// RecordActivity notes that userID was active in communityID at the given time.
	RecordActivity(ctx context.Context, communityID, userID string, at time.Time) error

	// AppendMessage posts a message to the community channel. Returns
	// created=false when a message with the same ID already exists.
	AppendMessage(ctx context.Context, msg *core.Message) (created bool, err error)

	// ListMessages returns the messages of a community, oldest first.
	ListMessages(ctx context.Context, communityID string) ([]*core.Message, error)
}

// VectorIndex stores fixed-dimension vectors by id and answers cosine
// similarity queries.
type VectorIndex interface {
	// Upsert stores or replaces the vector for id.
	Upsert(ctx context.Context, id string, vector []float32) error

	// Query returns the topK ids most similar to vector, score descending,
	// ties broken by id. Scores are cosine similarities in [-1, 1].
	// A nil allowlist searches every vector; a non-nil allowlist restricts
	// the search to those ids (an empty allowlist matches nothing).
	Query(ctx context.Context, vector []float32, topK int, allowlist []string) ([]core.ScoredID, error)
}

// CheckpointRepository persists batch job progress.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint, replacing any previous one with the same name.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the named checkpoint, or nil, nil if none exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)

	// ClearCheckpoint removes the named checkpoint.
	ClearCheckpoint(ctx context.Context, name string) error
}
