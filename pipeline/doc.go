// Package pipeline runs the asynchronous matching workflow.
//
// Submit validates a profile, records a pending task and returns its id at
// once. A worker from an ants pool then claims the task and runs, in
// order:
//
//  1. sanitization: PII is redacted from the bio and the profile is saved
//  2. vectorization: the sanitized profile is embedded
//  3. hybrid matching: location filter, then similarity search
//  4. decision: the top score picks the tier and action
//  5. introduction: soulmate matches are joined and introduced
//
// Each task has a wall-clock budget. A task that exceeds it fails with the
// timeout code; side effects committed before the deadline are kept.
// Completed and failed tasks alike publish one event on the user's
// notify topic.
//
// Example:
//
//	orch, err := pipeline.NewOrchestrator(deps, pipeline.NewConfig(pipeline.WithPoolSize(4)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer orch.Close()
//
//	id, err := orch.Submit(ctx, &core.ProfileInput{...})
package pipeline
