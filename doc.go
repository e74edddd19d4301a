// Package queuectl implements a durable job queue for shell commands
// with retrying workers, priority scheduling, delayed execution and a
// dead-letter queue.
//
// # Overview
//
// Jobs are shell-interpreted command lines persisted in an embedded
// SQLite database (package store) and dispatched to a pool of polling
// workers. Every attempt captures stdout, stderr and the exit status
// to its own log artifact. Failed attempts are retried with
// exponential backoff until the retry budget is exhausted, at which
// point the job is parked in the dead-letter queue for inspection and
// manual requeue.
//
// # Delivery Semantics
//
// The engine guarantees at most one concurrent execution per job and
// at least one attempt across crash recovery. It does not guarantee
// exactly-once execution: a job claimed by a worker that crashes is
// recovered and attempted again. Commands should therefore tolerate
// re-execution.
//
// # State Machine
//
// Jobs follow this lifecycle:
//
//	pending    -> processing
//	processing -> completed
//	processing -> pending   (retry with backoff)
//	processing -> dead      (retry budget exhausted)
//	dead       -> pending   (explicit DLQ requeue)
//
// Terminal states (completed, dead) are never claimed.
//
// # Claim Protocol
//
// Claiming is a select-then-conditional-update: the best eligible
// candidate is read, then transitioned to processing only while still
// pending. Of N racing workers exactly one observes a non-zero
// rows-affected count; the rest simply poll again. State transitions
// for a single job are totally ordered by the store's transaction
// serialization.
//
// # Retry Policy
//
// After a failed attempt the counter is incremented and the next run
// is scheduled backoff_base^attempts seconds in the future. Once
// attempts exceeds max_retries the job transitions to dead and a
// dead-letter row records the failure.
//
// # Components
//
//	store.Store — transactional persistence of jobs, DLQ, config and
//	              the worker registry
//	Executor    — runs a claimed command under a shell with timeout
//	              and per-attempt logging
//	Pool        — spawns and drains the polling workers
//	CleanWorker — periodic retention cleanup of terminal jobs
//	api.Server  — read-only HTTP surface plus DLQ requeue and delete
//
// # Shutdown
//
// Shutdown is cooperative. Raising the persisted shutdown flag makes
// every worker exit at its next idle boundary; an in-flight command
// runs to completion or its own timeout. Pool.Stop additionally
// cancels idle waits for a prompt in-process drain.
package queuectl
