package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker long running job stopped by cancelling ctx
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one round of a job
type OnWork func() error

// BaseJob cron scheduled job; a round is skipped while the previous one
// is still running
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running atomic.Bool
}

// NewCron cron in location, UTC when location is empty or unknown
func NewCron(location string) *cron.Cron {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.UTC
	}
	return cron.New(cron.WithLocation(l))
}

// Start start the cron scheduler
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop the scheduler and wait for the running round
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// Run run one round unless one is already running
func (job *BaseJob) Run() {
	if !job.running.CompareAndSwap(false, true) {
		return
	}
	defer job.running.Store(false)

	_ = job.OnWork()
}

// Serve starts the scheduler and blocks until ctx is done
func (job *BaseJob) Serve(ctx context.Context) error {
	if err := job.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return job.Stop()
}
