package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskID identifies a matching task. It is readable by callers and globally unique.
type TaskID string

// NewTaskID returns a fresh task id of the form "task_<32 hex chars>".
func NewTaskID() TaskID {
	u := uuid.New()
	return TaskID("task_" + strings.ReplaceAll(u.String(), "-", ""))
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// allowedTransitions lists every legal status change. Terminal states have no entry.
var allowedTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskProcessing},
	TaskProcessing: {TaskCompleted, TaskFailed},
}

// IsActive reports whether a task in this state blocks new submissions for its user.
func (s TaskStatus) IsActive() bool {
	return s == TaskPending || s == TaskProcessing
}

// IsTerminal reports whether no transition may leave this state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskProcessing, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Pipeline phases reported while a task is processing.
const (
	PhaseQueued         = "queued"
	PhaseSanitization   = "sanitization"
	PhaseVectorization  = "vectorization"
	PhaseHybridMatching = "hybrid_matching"
	PhaseDecision       = "decision_engine"
	PhaseIntroduction   = "introduction"
	PhaseDone           = "done"
)

// Step markers recorded once a side effect has committed.
const (
	StepAutoJoin        = "auto_join"
	StepIntroPosted     = "intro_posted"
	StepIntroDowngraded = "intro_downgraded"
)

// TaskError is the stable, client-visible error detail of a failed task.
type TaskError struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func (e *TaskError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TaskRecord is the durable state of one matching request.
//
// Invariants:
//   - Result is set iff Status is completed
//   - Error is set iff Status is failed
//   - Status never leaves a terminal state
type TaskRecord struct {
	ID          TaskID               `json:"task_id"`
	UserID      string               `json:"user_id"`
	Status      TaskStatus           `json:"status"`
	Phase       string               `json:"phase,omitempty"`
	Steps       map[string]time.Time `json:"steps,omitempty"` // Side-effect completion markers
	Result      *MatchResult         `json:"result,omitempty"`
	Error       *TaskError           `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// StepDone reports whether the named step marker is present.
func (t *TaskRecord) StepDone(step string) bool {
	_, ok := t.Steps[step]
	return ok
}

// TaskUpdate is the payload applied with a status transition.
type TaskUpdate struct {
	Result *MatchResult
	Error  *TaskError
}

// ValidateTransition checks that a transition and its payload respect the task invariants.
func ValidateTransition(from, to TaskStatus, update TaskUpdate) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	switch to {
	case TaskCompleted:
		if update.Result == nil || update.Error != nil {
			return fmt.Errorf("%w: completed task requires a result and no error", ErrInvalidTransition)
		}
	case TaskFailed:
		if update.Error == nil || update.Result != nil {
			return fmt.Errorf("%w: failed task requires an error and no result", ErrInvalidTransition)
		}
	default:
		if update.Result != nil || update.Error != nil {
			return fmt.Errorf("%w: %s carries no payload", ErrInvalidTransition, to)
		}
	}
	return nil
}

// ApplyTransition mutates the record for a validated transition.
func (t *TaskRecord) ApplyTransition(to TaskStatus, update TaskUpdate, now time.Time) {
	t.Status = to
	t.UpdatedAt = now
	t.Result = update.Result
	t.Error = update.Error
	if to.IsTerminal() {
		completed := now
		t.CompletedAt = &completed
		t.Phase = PhaseDone
	}
}
