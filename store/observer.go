package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
)

// Get returns the job identified by id, or (nil, nil) when it does
// not exist. The returned value is a snapshot; mutating it does not
// affect storage.
func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var row jobModel
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toJob(), nil
}

// List returns jobs filtered by state. With an empty state, all jobs
// are returned in storage order; with a concrete state, rows are
// ordered by priority descending.
func (s *Store) List(ctx context.Context, state job.State) ([]*job.Job, error) {
	query := s.db.NewSelect().Model((*jobModel)(nil))
	if state != "" {
		query = query.
			Where("state = ?", state).
			OrderExpr("priority DESC")
	}
	var rows []jobModel
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(rows))
	for i := range rows {
		ret[i] = rows[i].toJob()
	}
	return ret, nil
}

// ListByUpdated returns all jobs ordered by updated_at descending,
// the ordering used by the dashboard view.
func (s *Store) ListByUpdated(ctx context.Context) ([]*job.Job, error) {
	var rows []jobModel
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		OrderExpr("updated_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(rows))
	for i := range rows {
		ret[i] = rows[i].toJob()
	}
	return ret, nil
}

// DeadLetters returns all dead-letter entries ordered by failed_at
// descending.
func (s *Store) DeadLetters(ctx context.Context) ([]*job.DeadLetter, error) {
	var rows []dlqModel
	err := s.db.NewSelect().
		Model((*dlqModel)(nil)).
		OrderExpr("failed_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := make([]*job.DeadLetter, len(rows))
	for i := range rows {
		ret[i] = rows[i].toDeadLetter()
	}
	return ret, nil
}

// CountByState returns the number of jobs per state. States with no
// jobs are absent from the map.
func (s *Store) CountByState(ctx context.Context) (map[job.State]int, error) {
	var rows []struct {
		State job.State `bun:"state"`
		Count int       `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS count").
		GroupExpr("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := make(map[job.State]int, len(rows))
	for _, row := range rows {
		ret[row.State] = row.Count
	}
	return ret, nil
}

// RegisterWorker inserts (or refreshes) a worker registry row.
func (s *Store) RegisterWorker(ctx context.Context, workerID string) error {
	_, err := s.db.NewInsert().
		Model(&workerModel{WorkerID: workerID, StartedAt: clock.Now()}).
		On("CONFLICT (worker_id) DO UPDATE").
		Set("started_at = EXCLUDED.started_at").
		Exec(ctx)
	return err
}

// UnregisterWorker removes a worker registry row. Removing an absent
// row is not an error.
func (s *Store) UnregisterWorker(ctx context.Context, workerID string) error {
	_, err := s.db.NewDelete().
		Model((*workerModel)(nil)).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	return err
}

// WorkerCount returns the number of registered workers.
func (s *Store) WorkerCount(ctx context.Context) (int, error) {
	return s.db.NewSelect().
		Model((*workerModel)(nil)).
		Count(ctx)
}
