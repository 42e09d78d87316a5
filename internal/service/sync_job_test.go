package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fableforge/fable-sync/internal/mock"
)

// countingCoordinator — мок Coordinator, считающий тики дрейна.
func countingCoordinator(t *testing.T) (*mock.MockCoordinator, *atomic.Int32) {
	t.Helper()

	ctrl := gomock.NewController(t)
	coordinator := mock.NewMockCoordinator(ctrl)

	var calls atomic.Int32
	coordinator.EXPECT().
		ProcessQueue(gomock.Any()).
		Do(func(context.Context) { calls.Add(1) }).
		AnyTimes()

	return coordinator, &calls
}

func TestDrainJob_TicksUntilStopped(t *testing.T) {
	coordinator, calls := countingCoordinator(t)
	job := NewDrainJob(coordinator)

	job.Start(context.Background(), 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	job.Stop()

	got := calls.Load()
	assert.GreaterOrEqual(t, got, int32(3))

	// после Stop новых тиков нет
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, calls.Load())
}

func TestDrainJob_StopWithoutStartIsNoop(t *testing.T) {
	coordinator, _ := countingCoordinator(t)
	job := NewDrainJob(coordinator)
	job.Stop()
}

func TestDrainJob_RestartReplacesPreviousLoop(t *testing.T) {
	coordinator, calls := countingCoordinator(t)
	job := NewDrainJob(coordinator)

	job.Start(context.Background(), time.Hour) // первый цикл никогда не тикнет
	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestDrainJob_CancelledContextStopsLoop(t *testing.T) {
	coordinator, calls := countingCoordinator(t)
	job := NewDrainJob(coordinator)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)
	cancel()

	time.Sleep(50 * time.Millisecond)
	first := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, first, calls.Load())
}
