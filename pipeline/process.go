package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/intro"
	"github.com/poiesic/matchmaker/notify"
	"github.com/poiesic/matchmaker/search"
)

// process runs one task to a terminal state.
func (o *Orchestrator) process(id core.TaskID) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.TaskTimeout)
	defer cancel()
	logger := o.logger.With("task_id", id)

	task, err := o.claim(ctx, id)
	if err != nil {
		logger.Error("failed to claim task", "err", err)
		return
	}
	if task == nil {
		logger.Debug("task already claimed or finished")
		return
	}

	result, err := o.run(ctx, task)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", core.ErrTimeout, err)
	}
	if result != nil {
		result.ProcessingTimeMS = time.Since(start).Milliseconds()
	}

	// The task context may be spent; finalize on a fresh budget.
	finalCtx, finalCancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer finalCancel()
	o.finish(finalCtx, task, result, err)
}

// claim moves a pending task to processing. Processing tasks are resumed
// as they are. It returns nil when the task needs no work.
func (o *Orchestrator) claim(ctx context.Context, id core.TaskID) (*core.TaskRecord, error) {
	task, err := o.deps.Tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case core.TaskProcessing:
		return task, nil
	case core.TaskPending:
		claimed, err := o.deps.Tasks.TransitionTask(ctx, id, core.TaskPending, core.TaskProcessing, core.TaskUpdate{})
		if errors.Is(err, core.ErrInvalidTransition) {
			return nil, nil
		}
		return claimed, err
	default:
		o.inputs.Delete(id)
		return nil, nil
	}
}

// run executes the phases in order and assembles the result.
func (o *Orchestrator) run(ctx context.Context, task *core.TaskRecord) (*core.MatchResult, error) {
	o.setPhase(ctx, task, core.PhaseSanitization)
	profile, err := o.profile(ctx, task)
	if err != nil {
		return nil, err
	}

	o.setPhase(ctx, task, core.PhaseVectorization)
	vector, err := o.embedder.EmbedProfile(ctx, profile.SanitizedBio, profile.Tags)
	if err != nil {
		return nil, err
	}

	o.setPhase(ctx, task, core.PhaseHybridMatching)
	found, err := o.searcher.Search(ctx, search.Query{Vector: vector, City: profile.City, Timezone: profile.Timezone})
	if err != nil {
		return nil, err
	}

	o.setPhase(ctx, task, core.PhaseDecision)
	decided, err := o.decider.Decide(ctx, found.Matches)
	if err != nil {
		return nil, err
	}

	result := &core.MatchResult{
		TaskID:                task.ID,
		UserID:                task.UserID,
		Tier:                  decided.Tier,
		Matches:               decided.Matches,
		Action:                decided.Action,
		RequiresProfileUpdate: decided.RequiresProfileUpdate,
		Metadata: core.ResultMetadata{
			DiversityApplied: decided.DiversityApplied,
			SearchFallback:   found.Fallback,
			CandidateCount:   found.CandidateCount,
		},
	}

	if decided.Tier == core.TierSoulmate {
		o.setPhase(ctx, task, core.PhaseIntroduction)
		outcome, err := o.intros.Run(ctx, intro.Request{
			Task:         task,
			CommunityID:  decided.Action.CommunityID,
			SanitizedBio: profile.SanitizedBio,
		})
		if err != nil {
			return nil, err
		}
		result.AutoJoinedCommunity = decided.Action.CommunityID
		result.IntroGenerated = outcome.IntroGenerated
		result.IntroDowngraded = outcome.IntroDowngraded
		result.Metadata.RosterEmpty = outcome.RosterEmpty
		result.Metadata.SafetyScore = outcome.SafetyScore
		if outcome.IntroDowngraded {
			result.Action.Kind = core.ActionAutoJoin
		}
	}

	result.Metadata.Steps = task.Steps
	result.CreatedAt = time.Now().UTC()
	return result, nil
}

// profile sanitizes the submitted input. A task resumed after a restart
// has no input in memory and continues from the profile saved by its
// sanitization phase, if that phase completed.
func (o *Orchestrator) profile(ctx context.Context, task *core.TaskRecord) (*core.UserProfile, error) {
	if v, ok := o.inputs.LoadAndDelete(task.ID); ok {
		return o.sanitizer.BuildProfile(ctx, v.(*core.ProfileInput))
	}

	profile, err := o.deps.Profiles.GetProfile(ctx, task.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrInputLost
	}
	if err != nil {
		return nil, core.Unavailable(core.KindRelationalStore, err)
	}
	if profile.UpdatedAt.Before(task.CreatedAt) {
		return nil, ErrInputLost
	}
	o.logger.Info("resuming task from saved profile", "task_id", task.ID)
	return profile, nil
}

func (o *Orchestrator) setPhase(ctx context.Context, task *core.TaskRecord, phase string) {
	if err := o.deps.Tasks.SetTaskPhase(ctx, task.ID, phase); err != nil {
		o.logger.Warn("failed to record phase", "task_id", task.ID, "phase", phase, "err", err)
		return
	}
	task.Phase = phase
	o.logger.Debug("phase", "task_id", task.ID, "phase", phase)
}

// finish records the terminal state and publishes the completion event.
// Side effects already committed are kept when the task fails. Nothing is
// published unless the terminal transition was stored, so each task emits
// at most one event and it always agrees with the stored status.
func (o *Orchestrator) finish(ctx context.Context, task *core.TaskRecord, result *core.MatchResult, runErr error) {
	event := notify.Event{TaskID: task.ID, UserID: task.UserID, At: time.Now().UTC()}
	logger := o.logger.With("task_id", task.ID, "user_id", task.UserID)

	var update core.TaskUpdate
	if runErr != nil {
		update.Error = core.NewTaskError(runErr)
		event.Status, event.Error = core.TaskFailed, update.Error
		logger.Error("task failed", "code", update.Error.Code, "kind", update.Error.Kind, "err", runErr)
	} else {
		update.Result = result
		event.Status, event.Result = core.TaskCompleted, result
		logger.Info("task completed", "tier", result.Tier, "action", result.Action.Kind,
			"processing_time_ms", result.ProcessingTimeMS)
	}

	if _, err := o.deps.Tasks.TransitionTask(ctx, task.ID, core.TaskProcessing, event.Status, update); err != nil {
		logger.Error("failed to record terminal state", "status", event.Status, "err", err)
		return
	}
	if err := o.deps.Publisher.Publish(ctx, notify.Topic(task.UserID), event); err != nil {
		logger.Error("failed to publish completion event", "err", err)
	}
}
