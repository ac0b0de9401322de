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

package reembed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/matchmaker/ai"
)

// RetryWithBackoff runs operation up to maxAttempts times, doubling the delay
// after each failure starting from baseDelay. Malformed or empty embedder
// responses are returned immediately since repeating the call will not help.
// Returns the error from the last attempt if all attempts fail.
func RetryWithBackoff(ctx context.Context, operation func(context.Context) error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	attempt := 0
	return ai.Retry(ctx, maxAttempts, baseDelay, retryable, func(ctx context.Context) error {
		attempt++
		err := operation(ctx)
		if err != nil {
			slog.Debug("operation failed", "attempt", attempt, "maxAttempts", maxAttempts, "error", err)
		}
		return err
	})
}

func retryable(err error) bool {
	return !errors.Is(err, ai.ErrMalformedResponse) &&
		!errors.Is(err, ai.ErrEmptyResponse) &&
		!errors.Is(err, context.Canceled)
}
