// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"context"
	"errors"
	"fmt"
)

// Matching error taxonomy
var (
	// ErrValidation indicates a malformed profile; no task is created.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateSubmission indicates the user already has an active task.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrCollaboratorUnavailable indicates an external collaborator failed.
	// Always wrapped in a *CollaboratorError carrying the sub-kind.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrInvalidTransition indicates a disallowed or stale task status change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSafetyRejected indicates generated text failed the safety check.
	// It downgrades the action and never fails a task.
	ErrSafetyRejected = errors.New("safety rejected")

	// ErrTimeout indicates the task exceeded its wall-clock budget.
	ErrTimeout = errors.New("task timed out")

	// ErrQueueUnavailable indicates the worker pool refused the task.
	ErrQueueUnavailable = errors.New("queue unavailable")
)

// Validation failures, wrapped by ErrValidation
var (
	ErrEmptyUserID      = errors.New("user id cannot be empty")
	ErrBioLength        = errors.New("bio must be between 10 and 500 characters")
	ErrTagCount         = errors.New("between 1 and 20 interest tags required")
	ErrEmptyCity        = errors.New("city cannot be empty")
	ErrInvalidTimezone  = errors.New("timezone is not a valid IANA zone")
	ErrEmptyCommunityID = errors.New("community id cannot be empty")
)

// CollaboratorKind names the external dependency that failed.
type CollaboratorKind string

const (
	KindSanitizer       CollaboratorKind = "sanitizer"
	KindEmbedder        CollaboratorKind = "embedder"
	KindVectorIndex     CollaboratorKind = "vector_index"
	KindRelationalStore CollaboratorKind = "relational_store"
	KindLanguageModel   CollaboratorKind = "language_model"
	KindActivityLog     CollaboratorKind = "activity_log"
)

// CollaboratorError wraps a collaborator failure with its sub-kind.
// It matches ErrCollaboratorUnavailable under errors.Is.
type CollaboratorError struct {
	Kind CollaboratorKind
	Err  error
}

// Unavailable wraps err as a collaborator failure of the given kind.
// Context cancellation and deadline errors pass through unwrapped.
func Unavailable(kind CollaboratorKind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return &CollaboratorError{Kind: kind, Err: err}
}

// Wrap attaches err as the cause of e, keeping e matchable with errors.Is.
// Context cancellation and deadline errors pass through unwrapped.
func (e *CollaboratorError) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", e, err)
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCollaboratorUnavailable, e.Kind, e.Err)
}

func (e *CollaboratorError) Unwrap() []error {
	return []error{ErrCollaboratorUnavailable, e.Err}
}

// Sub-kind sentinels used by the sanitizer and embedder.
var (
	ErrSanitizationUnavailable = &CollaboratorError{Kind: KindSanitizer, Err: errors.New("sanitization unavailable")}
	ErrEmbeddingUnavailable    = &CollaboratorError{Kind: KindEmbedder, Err: errors.New("embedding unavailable")}
)

// Stable error codes exposed to polling clients.
const (
	CodeValidation    = "validation_error"
	CodeDuplicate     = "duplicate_submission"
	CodeCollaborator  = "collaborator_unavailable"
	CodeTimeout       = "timeout"
	CodeQueue         = "queue_unavailable"
	CodeTransition    = "invalid_transition"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
)

// ErrorCode maps err to its stable client-visible code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrDuplicateSubmission):
		return CodeDuplicate
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, ErrCollaboratorUnavailable):
		return CodeCollaborator
	case errors.Is(err, ErrQueueUnavailable):
		return CodeQueue
	case errors.Is(err, ErrInvalidTransition):
		return CodeTransition
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// NewTaskError converts err into the detail stored on a failed task.
func NewTaskError(err error) *TaskError {
	te := &TaskError{
		Code:    ErrorCode(err),
		Message: err.Error(),
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		te.Kind = string(ce.Kind)
	}
	return te
}
