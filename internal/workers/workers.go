package workers

import (
	"context"
	"time"

	"github.com/fableforge/fable-sync/internal/netmon"
	"github.com/fableforge/fable-sync/internal/service"
)

// Workers aggregates the engine's background workers.
type Workers struct {
	workers []Worker
}

// NewWorkers builds the standard worker set: the connectivity probe loop
// and the periodic queue drain job.
func NewWorkers(ctx context.Context, monitor *netmon.PingMonitor, job service.DrainJob, drainInterval time.Duration) *Workers {
	return &Workers{workers: []Worker{
		&monitorWorker{ctx: ctx, monitor: monitor},
		&drainWorker{ctx: ctx, job: job, interval: drainInterval},
	}}
}

// Run starts every worker in order.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// monitorWorker starts the connectivity probe loop.
type monitorWorker struct {
	ctx     context.Context
	monitor *netmon.PingMonitor
}

func (w *monitorWorker) Run() {
	w.monitor.Start(w.ctx)
}

// drainWorker starts the periodic queue drain job.
type drainWorker struct {
	ctx      context.Context
	job      service.DrainJob
	interval time.Duration
}

func (w *drainWorker) Run() {
	w.job.Start(w.ctx, w.interval)
}
