package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
)

// Complete transitions a processing job to completed, counts the
// successful attempt and clears its lock fields. If the row is no
// longer processing, ErrJobLost is returned.
func (s *Store) Complete(ctx context.Context, j *job.Job) error {
	now := clock.Now()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("attempts = attempts + 1").
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", j.ID).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return ErrJobLost
	}
	j.State = job.Completed
	j.Attempts++
	j.LockedBy = ""
	j.LockedAt = ""
	j.UpdatedAt = now
	return nil
}

// Fail records a failed attempt for a processing job and applies the
// retry policy in a single transaction.
//
// The attempt counter is incremented. When the new count exceeds the
// job's retry budget, the job transitions to dead and a dead-letter
// row is upserted. Otherwise the job returns to pending with
// next_run_at set delay from now; the caller computes delay from the
// configured backoff base.
//
// If the row is no longer processing, ErrJobLost is returned.
func (s *Store) Fail(ctx context.Context, j *job.Job, delay time.Duration) error {
	now := clock.Now()
	attempts := j.Attempts + 1
	exhausted := attempts > j.MaxRetries
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if exhausted {
			res, err := tx.NewUpdate().
				Model((*jobModel)(nil)).
				Set("state = ?", job.Dead).
				Set("attempts = ?", attempts).
				Set("locked_by = NULL").
				Set("locked_at = NULL").
				Set("updated_at = ?", now).
				Where("id = ?", j.ID).
				Where("state = ?", job.Processing).
				Exec(ctx)
			if err != nil {
				return err
			}
			if !isAffected(res) {
				return ErrJobLost
			}
			// Fixed failure label; a log tail is deliberately not captured.
			entry := &dlqModel{
				ID:         j.ID,
				Command:    j.Command,
				Attempts:   attempts,
				MaxRetries: j.MaxRetries,
				FailedAt:   now,
				LastError:  "failed",
			}
			_, err = tx.NewInsert().
				Model(entry).
				On("CONFLICT (id) DO UPDATE").
				Set("command = EXCLUDED.command").
				Set("attempts = EXCLUDED.attempts").
				Set("max_retries = EXCLUDED.max_retries").
				Set("failed_at = EXCLUDED.failed_at").
				Set("last_error = EXCLUDED.last_error").
				Exec(ctx)
			return err
		}
		nextRun := clock.In(delay)
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = ?", attempts).
			Set("next_run_at = ?", nextRun).
			Set("locked_by = NULL").
			Set("locked_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", j.ID).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return ErrJobLost
		}
		return nil
	})
	if err != nil {
		return err
	}
	j.Attempts = attempts
	j.LockedBy = ""
	j.LockedAt = ""
	j.UpdatedAt = now
	if exhausted {
		j.State = job.Dead
	} else {
		j.State = job.Pending
	}
	return nil
}

// RequeueDead moves a dead-lettered job back to pending.
//
// In one transaction: the dead-letter row must exist (ErrNotFound
// otherwise), the jobs row is reset to pending with zero attempts,
// cleared locks and next_run_at of now, and the dead-letter row is
// deleted.
func (s *Store) RequeueDead(ctx context.Context, id string) error {
	now := clock.Now()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*dlqModel)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		_, err = tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = 0").
			Set("next_run_at = ?", now).
			Set("locked_by = NULL").
			Set("locked_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*dlqModel)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}

// Delete removes a jobs row unconditionally, in any state. It does not
// cascade to the dead-letter queue. ErrNotFound is returned when no
// row matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return ErrNotFound
	}
	return nil
}
