package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fableforge/fable-sync/internal/adapter"
	"github.com/fableforge/fable-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestRetryScheduler_ExponentialGrowth(t *testing.T) {
	s := NewRetryScheduler(5, time.Second, time.Hour).WithJitter(0)

	assert.Equal(t, 1*time.Second, s.Delay(1))
	assert.Equal(t, 2*time.Second, s.Delay(2))
	assert.Equal(t, 4*time.Second, s.Delay(3))
	assert.Equal(t, 8*time.Second, s.Delay(4))
}

func TestRetryScheduler_CappedAtMaxDelay(t *testing.T) {
	s := NewRetryScheduler(10, time.Second, 5*time.Second).WithJitter(0)

	assert.Equal(t, 4*time.Second, s.Delay(3))
	assert.Equal(t, 5*time.Second, s.Delay(4))
	assert.Equal(t, 5*time.Second, s.Delay(9))
}

func TestRetryScheduler_JitteredDelaysNeverExceedCap(t *testing.T) {
	s := NewRetryScheduler(8, time.Second, 10*time.Second)

	for attempt := 1; attempt <= 8; attempt++ {
		d := s.Delay(attempt)
		assert.Positive(t, d)
		assert.LessOrEqual(t, d, 10*time.Second)
	}
}

func TestRetryScheduler_StrictlyIncreasingBelowCap(t *testing.T) {
	// джиттер 20% не должен ломать строгий рост: 0.8*2^n > 1.2*2^(n-1)
	s := NewRetryScheduler(6, time.Second, time.Hour)

	for i := 0; i < 20; i++ {
		prev := time.Duration(0)
		for attempt := 1; attempt <= 5; attempt++ {
			d := s.Delay(attempt)
			assert.Greater(t, d, prev, "attempt %d", attempt)
			prev = d
		}
	}
}

func TestRetryScheduler_NextRetryAtIncreases(t *testing.T) {
	s := NewRetryScheduler(5, time.Second, time.Hour).WithJitter(0)
	now := time.Now()

	first := s.NextRetryAt(now, 1)
	second := s.NextRetryAt(now, 2)
	assert.True(t, second.After(first))
}

func TestRetryScheduler_Exhausted(t *testing.T) {
	s := NewRetryScheduler(3, time.Second, time.Minute)

	assert.False(t, s.Exhausted(2))
	assert.True(t, s.Exhausted(3))
	assert.True(t, s.Exhausted(4))
}

// ── Classify ─────────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"validation is terminal", fmt.Errorf("push: %w", adapter.ErrValidation), ClassTerminal},
		{"timeout is retryable", fmt.Errorf("push: %w", adapter.ErrTimeout), ClassRetryable},
		{"network is retryable", fmt.Errorf("push: %w", adapter.ErrNetwork), ClassRetryable},
		{"server error is retryable", fmt.Errorf("push: %w", adapter.ErrServer), ClassRetryable},
		{"deadline is retryable", context.DeadlineExceeded, ClassRetryable},
		{"conflict routes to resolver", &adapter.ConflictError{Remote: models.RemoteRecord{Checksum: "v2"}}, ClassConflict},
		{"unknown defaults to retryable", errors.New("mystery"), ClassRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
