package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/romanqed/queuectl/job"
)

// Clean permanently deletes terminal jobs from storage.
//
// Only terminal states are allowed: completed and dead. An empty
// state targets both. Non-terminal states are rejected with
// ErrBadState. If before is non-empty, only jobs with
// updated_at <= before are deleted.
//
// Deleting dead jobs also removes their dead-letter rows so that
// every remaining dead-letter entry keeps a matching dead job.
//
// Clean returns the number of deleted jobs. It does not coordinate
// with running workers; processing jobs are excluded by the state
// checks.
func (s *Store) Clean(ctx context.Context, state job.State, before string) (int64, error) {
	if state != "" && !state.Terminal() {
		return 0, ErrBadState
	}
	var ids []string
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		query := tx.NewDelete().Model((*jobModel)(nil))
		if state != "" {
			query = query.Where("state = ?", state)
		} else {
			query = query.Where("state IN (?, ?)", job.Completed, job.Dead)
		}
		if before != "" {
			query = query.Where("updated_at <= ?", before)
		}
		if _, err := query.Returning("id").Exec(ctx, &ids); err != nil {
			return err
		}
		if len(ids) == 0 || state == job.Completed {
			return nil
		}
		_, err := tx.NewDelete().
			Model((*dlqModel)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
