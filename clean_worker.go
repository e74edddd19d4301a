package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/romanqed/queuectl/internal"
	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

// CleanConfig defines the scheduling and filtering parameters for a
// CleanWorker.
//
// State specifies which terminal state to target; empty targets both
// completed and dead jobs.
//
// Interval defines how often the cleaner runs.
//
// MaxAge, when positive, restricts deletion to jobs whose updated_at
// is older than now - MaxAge.
type CleanConfig struct {
	State    job.State
	Interval time.Duration
	MaxAge   time.Duration
}

// CleanWorker periodically removes terminal jobs from the store
// according to the provided configuration.
//
// CleanWorker is intended for background retention management. It
// does not participate in job processing: pending and processing jobs
// are never touched, and cleaning dead jobs also drops their
// dead-letter rows.
//
// CleanWorker has a strict lifecycle:
//   - Start may only be called once.
//   - Stop must be called to terminate the worker and waits for the
//     internal task to finish or until the timeout expires.
type CleanWorker struct {
	lcBase
	store    *store.Store
	task     internal.TimerTask
	log      *slog.Logger
	state    job.State
	interval time.Duration
	maxAge   time.Duration
}

// NewCleanWorker creates a new CleanWorker over the given store.
//
// The worker is not started automatically. Call Start to begin
// periodic cleaning.
func NewCleanWorker(st *store.Store, config *CleanConfig, log *slog.Logger) *CleanWorker {
	return &CleanWorker{
		store:    st,
		log:      log,
		state:    config.State,
		interval: config.Interval,
		maxAge:   config.MaxAge,
	}
}

func (cw *CleanWorker) beforeStamp() string {
	if cw.maxAge <= 0 {
		return ""
	}
	return clock.In(-cw.maxAge)
}

func (cw *CleanWorker) clean(ctx context.Context) {
	count, err := cw.store.Clean(ctx, cw.state, cw.beforeStamp())
	if err != nil {
		cw.log.Error("error while cleaning", "err", err)
		return
	}
	cw.log.Info("cleaned jobs", "count", count)
}

// Start begins periodic execution of the cleaning task.
//
// Start returns ErrDoubleStarted if the worker has already been
// started. The provided context controls cancellation of the
// background task.
func (cw *CleanWorker) Start(ctx context.Context) error {
	if err := cw.tryStart(); err != nil {
		return err
	}
	cw.task.Start(ctx, cw.clean, cw.interval)
	return nil
}

// Stop terminates the background cleaning task.
//
// Stop waits until the task finishes or the specified timeout
// expires, in which case ErrStopTimeout is returned. Stop returns
// ErrDoubleStopped if the worker is not running.
func (cw *CleanWorker) Stop(timeout time.Duration) error {
	return cw.tryStop(timeout, cw.task.Stop)
}
