package queue

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fableforge/fable-sync/internal/adapter"
)

// FailureClass routes a delivery failure to its handling path.
type FailureClass int

const (
	// ClassRetryable covers timeouts, transport errors, and 5xx responses.
	ClassRetryable FailureClass = iota
	// ClassTerminal covers validation and other 4xx failures. They bypass
	// retry and dead-letter immediately.
	ClassTerminal
	// ClassConflict marks a version conflict. The coordinator routes it to
	// the conflict resolver instead of the retry path.
	ClassConflict
)

// Classify maps a remote call error to its failure class. Unknown errors
// count as retryable: a transient fault mistaken for terminal would lose
// work, the reverse only wastes attempts.
func Classify(err error) FailureClass {
	var conflictErr *adapter.ConflictError
	if errors.As(err, &conflictErr) {
		return ClassConflict
	}
	if errors.Is(err, adapter.ErrValidation) {
		return ClassTerminal
	}
	if errors.Is(err, adapter.ErrTimeout) || errors.Is(err, adapter.ErrNetwork) || errors.Is(err, adapter.ErrServer) {
		return ClassRetryable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassRetryable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassRetryable
	}
	return ClassRetryable
}

// RetryScheduler computes exponential backoff delays and decides when an
// operation has exhausted its attempts.
type RetryScheduler struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	jitter      float64
}

// NewRetryScheduler constructs a scheduler with
// delay = min(maxDelay, baseDelay * 2^attempt) plus proportional jitter.
func NewRetryScheduler(maxAttempts int, baseDelay, maxDelay time.Duration) *RetryScheduler {
	return &RetryScheduler{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		jitter:      0.2,
	}
}

// WithJitter overrides the randomization factor. Zero makes delays exact,
// which the backoff growth tests rely on.
func (s *RetryScheduler) WithJitter(jitter float64) *RetryScheduler {
	s.jitter = jitter
	return s
}

// MaxAttempts returns the configured attempt budget.
func (s *RetryScheduler) MaxAttempts() int {
	return s.maxAttempts
}

// Exhausted reports whether attempt (1-based count of failed deliveries)
// has used up the budget.
func (s *RetryScheduler) Exhausted(attempt int) bool {
	return attempt >= s.maxAttempts
}

// Delay returns the backoff delay after the given failed attempt (1-based:
// Delay(1) follows the first failure).
func (s *RetryScheduler) Delay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.baseDelay
	b.RandomizationFactor = s.jitter
	b.Multiplier = 2
	b.MaxInterval = s.maxDelay
	b.MaxElapsedTime = 0
	b.Reset()

	d := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		d = b.NextBackOff()
	}
	if d > s.maxDelay {
		d = s.maxDelay
	}
	return d
}

// NextRetryAt returns the wall-clock moment the operation becomes runnable
// again after the given failed attempt.
func (s *RetryScheduler) NextRetryAt(now time.Time, attempt int) time.Time {
	return now.Add(s.Delay(attempt))
}
