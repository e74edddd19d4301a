package queuectl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/romanqed/queuectl/internal"
	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

// PoolConfig defines runtime behavior of a worker Pool.
//
// Count specifies the number of concurrent workers. Each worker runs
// one job at a time; parallelism comes from running several workers.
type PoolConfig struct {
	Count int
}

// Pool coordinates a set of polling workers against a shared store.
//
// Each worker:
//
//  1. Registers itself in the worker registry under a unique id.
//  2. Claims eligible jobs, runs them through the Executor and applies
//     the retry/DLQ policy.
//  3. Sleeps the configured poll interval when no job is eligible.
//  4. Exits when the persisted shutdown flag is raised, then
//     unregisters.
//
// Before starting its workers, the Pool resets processing jobs whose
// owner is no longer registered; this recovers jobs wedged by a
// crashed worker.
//
// Pool has a strict lifecycle:
//   - Start may only be called once.
//   - Stop cancels idle waits and blocks until every worker has
//     drained or the timeout expires. In-flight commands run to
//     completion or their own timeout; shutdown never interrupts a
//     running job.
type Pool struct {
	lcBase
	store  *store.Store
	log    *slog.Logger
	count  int
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a new Pool over the given store.
//
// The pool is not started automatically. Call Start to begin
// processing.
func NewPool(st *store.Store, config *PoolConfig, log *slog.Logger) *Pool {
	count := config.Count
	if count < 1 {
		count = 1
	}
	return &Pool{
		store: st,
		log:   log,
		count: count,
	}
}

// Start recovers stuck jobs and launches the configured number of
// workers.
//
// Start returns ErrDoubleStarted if the pool has already been
// started. The provided context cancels idle waits; raising the
// persisted shutdown flag remains the cooperative way to drain
// workers across processes.
func (p *Pool) Start(ctx context.Context) error {
	if err := p.tryStart(); err != nil {
		return err
	}
	recovered, err := p.store.RecoverStuck(ctx)
	if err != nil {
		p.log.Error("stuck job recovery failed", "err", err)
	} else if recovered > 0 {
		p.log.Info("recovered stuck jobs", "count", recovered)
	}
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.count; i++ {
		w := &worker{
			id:    uuid.NewString(),
			store: p.store,
		}
		w.log = p.log.With("worker", w.id)
		w.exec = NewExecutor(w.log)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.run(ctx)
		}()
	}
	return nil
}

func (p *Pool) doStop() internal.DoneChan {
	p.cancel()
	return internal.WrapWaitGroup(&p.wg)
}

// Stop initiates shutdown of the pool and waits until all workers
// have drained or the timeout expires, in which case ErrStopTimeout
// is returned. Stop returns ErrDoubleStopped if the pool is not
// running.
func (p *Pool) Stop(timeout time.Duration) error {
	return p.tryStop(timeout, p.doStop)
}

type worker struct {
	id    string
	store *store.Store
	exec  *Executor
	log   *slog.Logger
}

func (w *worker) run(ctx context.Context) {
	if err := w.store.RegisterWorker(ctx, w.id); err != nil {
		w.log.Error("cannot register worker", "err", err)
		return
	}
	defer func() {
		// Unregister even when the surrounding context is gone.
		if err := w.store.UnregisterWorker(context.WithoutCancel(ctx), w.id); err != nil {
			w.log.Error("cannot unregister worker", "err", err)
		}
	}()
	w.log.Info("worker started")
	for {
		if ctx.Err() != nil {
			return
		}
		flag, err := w.store.ConfigGet(ctx, store.KeyShutdownFlag)
		if err != nil {
			w.log.Error("cannot read shutdown flag", "err", err)
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		if flag == "1" {
			w.log.Info("shutdown flag raised, worker exiting")
			return
		}
		jb, err := w.store.Claim(ctx, w.id)
		if err != nil {
			w.log.Error("claim failed", "err", err)
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		if jb == nil {
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		w.process(ctx, jb)
	}
}

// sleep waits the configured poll interval. It returns false when the
// context was canceled instead.
func (w *worker) sleep(ctx context.Context) bool {
	seconds, err := w.store.ConfigInt(ctx, store.KeyPollInterval)
	if err != nil {
		seconds = 1
	}
	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// process runs a claimed job and applies the result to the store.
// An in-flight job is never interrupted by pool shutdown, so all
// store writes here use a cancel-free context.
func (w *worker) process(ctx context.Context, jb *job.Job) {
	ctx = context.WithoutCancel(ctx)
	defaultTimeout, err := w.store.ConfigInt(ctx, store.KeyJobTimeout)
	if err != nil {
		w.log.Error("cannot read default timeout", "err", err)
		defaultTimeout = 0
	}
	logDir, err := w.store.ConfigGet(ctx, store.KeyLogDir)
	if err != nil || logDir == "" {
		logDir = "logs"
	}
	timeout := time.Duration(jb.EffectiveTimeout(defaultTimeout)) * time.Second

	ok, err := w.exec.Run(jb, logDir, timeout)
	if err != nil {
		// Execution-environment trouble fails the attempt, not the worker.
		w.log.Error("attempt could not execute", "id", jb.ID, "err", err)
		ok = false
	}
	if ok {
		if err := w.store.Complete(ctx, jb); err != nil {
			w.log.Error("cannot complete job", "id", jb.ID, "err", err)
			return
		}
		w.log.Info("job completed", "id", jb.ID, "attempts", jb.Attempts)
		return
	}
	base, err := w.store.ConfigInt(ctx, store.KeyBackoffBase)
	if err != nil {
		base = 2
	}
	delay := Backoff{Base: base}.Delay(jb.Attempts + 1)
	if err := w.store.Fail(ctx, jb, delay); err != nil {
		w.log.Error("cannot record failed attempt", "id", jb.ID, "err", err)
		return
	}
	if jb.State == job.Dead {
		w.log.Warn("job dead lettered", "id", jb.ID, "attempts", jb.Attempts)
		return
	}
	w.log.Info("job scheduled for retry", "id", jb.ID, "attempts", jb.Attempts, "delay", delay)
}
