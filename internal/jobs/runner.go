package jobs

import (
	"context"
	"time"

	"github.com/campusops/viability-engine/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every запускает задачу сразу при старте и далее по тикеру.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		r.runOnce(name, fn)
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	if err := fn(r.ctx); err != nil {
		jobErrors.WithLabelValues(name).Inc()
		observability.CaptureErr(err)
	}
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
