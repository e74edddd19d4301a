package store

import (
	"context"
	"fmt"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
)

// Enqueue upserts a job by id and returns the effective row.
//
// When no row exists, the descriptor is inserted as a pending job.
// When a row with the same id exists, its command, timeout, priority
// and schedule are overwritten and the job is reset to pending with
// zero attempts and cleared lock fields. Enqueue is therefore
// idempotent and doubles as a deliberate "replace and requeue" for a
// known id; callers that want to retain previous attempts must use
// distinct ids.
//
// An omitted max_retries falls back to the configured default. An
// omitted run_at means "immediately"; next_run_at always starts equal
// to the effective run_at.
func (s *Store) Enqueue(ctx context.Context, d *job.Descriptor) (*job.Job, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("%w: missing job id", ErrBadInput)
	}
	if d.Command == "" {
		return nil, fmt.Errorf("%w: missing job command", ErrBadInput)
	}
	now := clock.Now()
	runAt := d.RunAt
	if runAt == "" {
		runAt = now
	} else if _, err := clock.Parse(runAt); err != nil {
		return nil, fmt.Errorf("%w: malformed run_at %q", ErrBadInput, d.RunAt)
	}
	maxRetries := 0
	if d.MaxRetries != nil {
		maxRetries = *d.MaxRetries
	} else {
		n, err := s.ConfigInt(ctx, KeyDefaultMaxRetries)
		if err != nil {
			return nil, err
		}
		maxRetries = n
	}
	model := &jobModel{
		ID:             d.ID,
		Command:        d.Command,
		State:          job.Pending,
		Attempts:       0,
		MaxRetries:     maxRetries,
		TimeoutSeconds: d.TimeoutSeconds,
		Priority:       d.Priority,
		RunAt:          nullable(runAt),
		CreatedAt:      now,
		UpdatedAt:      now,
		NextRunAt:      runAt,
	}
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("command = EXCLUDED.command").
		Set("state = 'pending'").
		Set("attempts = 0").
		Set("max_retries = EXCLUDED.max_retries").
		Set("timeout_seconds = EXCLUDED.timeout_seconds").
		Set("priority = EXCLUDED.priority").
		Set("run_at = EXCLUDED.run_at").
		Set("updated_at = EXCLUDED.updated_at").
		Set("next_run_at = EXCLUDED.next_run_at").
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, d.ID)
}
