package service

import (
	"context"
	"sync"
	"time"

	"github.com/fableforge/fable-sync/internal/config"
)

type drainJob struct {
	coordinator Coordinator

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDrainJob creates a drainJob that calls coordinator.ProcessQueue on a
// ticker. The job is idle until Start is called.
func NewDrainJob(coordinator Coordinator) DrainJob {
	return &drainJob{coordinator: coordinator}
}

// Start implements DrainJob. It stops any previously running job, then
// launches a background goroutine that drains the queue every interval. If
// interval is zero or negative it defaults to one minute. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *drainJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultDrainInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.coordinator.ProcessQueue(jobCtx)
			}
		}
	}()
}

// Stop implements DrainJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the
// job is not running (no-op in that case).
func (j *drainJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
