package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
)

// Claim attempts to atomically transition one eligible job to
// processing, bound to workerID. It returns (nil, nil) when no job is
// eligible or when another worker won the race for the candidate.
//
// Eligibility: state pending, next_run_at due, and run_at (when set)
// due. Candidate order is priority descending, then created_at
// ascending, then id ascending; the id tie-break keeps selection
// deterministic when created_at collides at second resolution.
//
// The transition is a conditional update guarded on the row still
// being pending; a zero rows-affected count means a concurrent claim
// got there first and the caller simply retries on its next poll. No
// table lock is taken.
func (s *Store) Claim(ctx context.Context, workerID string) (*job.Job, error) {
	now := clock.Now()
	var id string
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("next_run_at <= ?", now).
		WhereGroup("AND", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("run_at IS NULL").
				WhereOr("run_at <= ?", now)
		}).
		OrderExpr("priority DESC").
		OrderExpr("created_at ASC").
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("locked_by = ?", workerID).
		Set("locked_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Pending).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if !isAffected(res) {
		return nil, nil // lost the race, retry on next poll
	}
	return s.Get(ctx, id)
}

// RecoverStuck resets abandoned processing jobs back to pending.
//
// A processing job is considered abandoned when its locked_by worker
// is no longer present in the worker registry, which happens when a
// worker crashes without unregistering. Lock fields are cleared and
// next_run_at is left untouched. Returns the number of recovered jobs.
func (s *Store) RecoverStuck(ctx context.Context) (int64, error) {
	registered := s.db.NewSelect().
		Model((*workerModel)(nil)).
		Column("worker_id")
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("updated_at = ?", clock.Now()).
		Where("state = ?", job.Processing).
		Where("locked_by NOT IN (?)", registered).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
