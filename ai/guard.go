package ai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Guard applies a rate limit, a per-call timeout and bounded retries with
// exponential backoff to calls against a language-model service.
// Only transient errors are retried.
type Guard struct {
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewGuard creates a Guard from the limits in cfg.
func NewGuard(cfg *Config) *Guard {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	return &Guard{
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    cfg.RequestTimeout,
		maxRetries: max(0, cfg.MaxRetries),
		retryDelay: cfg.RetryDelay,
		logger:     slog.Default().With("component", "ai-guard"),
	}
}

// Do runs op, retrying transient failures. The context passed to op carries
// the per-call timeout. Cancellation of ctx stops retries immediately.
func (g *Guard) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempt := 0
	limited := false
	retryable := func(err error) bool { return !limited && IsTransient(err) }
	return Retry(ctx, g.maxRetries+1, g.retryDelay, retryable, func(ctx context.Context) error {
		attempt++
		if err := g.limiter.Wait(ctx); err != nil {
			limited = true
			return err
		}
		err := g.call(ctx, op)
		switch {
		case err == nil && attempt > 1:
			g.logger.Debug("call succeeded after retry", "op", name, "attempt", attempt)
		case err != nil && IsTransient(err):
			g.logger.Debug("transient failure", "op", name, "attempt", attempt, "err", err)
		}
		return err
	})
}

func (g *Guard) call(ctx context.Context, op func(ctx context.Context) error) error {
	if g.timeout <= 0 {
		return op(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return op(callCtx)
}

// transientMarkers are substrings of error messages from HTTP clients and
// OpenAI-compatible servers that indicate a retryable condition.
var transientMarkers = []string{
	"429",
	"502",
	"503",
	"504",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"service unavailable",
	"temporarily",
	"rate limit",
}

// IsTransient reports whether err is worth retrying.
// Malformed and empty responses and cancellations are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrEmptyResponse) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
