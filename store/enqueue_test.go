package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

func TestEnqueueDefaults(t *testing.T) {
	st := newTestStore(t)

	jb := mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo hi"})
	if jb.State != job.Pending {
		t.Fatalf("expected pending, got %v", jb.State)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected 0 attempts, got %d", jb.Attempts)
	}
	if jb.MaxRetries != 3 {
		t.Fatalf("expected default max_retries 3, got %d", jb.MaxRetries)
	}
	if jb.Priority != 0 || jb.TimeoutSeconds != 0 {
		t.Fatal("expected zero priority and timeout")
	}
	if jb.RunAt == "" || jb.NextRunAt != jb.RunAt {
		t.Fatalf("expected next_run_at = run_at, got %q and %q", jb.NextRunAt, jb.RunAt)
	}
	if jb.CreatedAt == "" || jb.UpdatedAt == "" {
		t.Fatal("expected lifecycle timestamps to be set")
	}
	if jb.LockedBy != "" || jb.LockedAt != "" {
		t.Fatal("expected no lock fields on a pending job")
	}
}

func TestEnqueueMissingFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Enqueue(ctx, &job.Descriptor{Command: "echo"}); !errors.Is(err, store.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
	if _, err := st.Enqueue(ctx, &job.Descriptor{ID: "a"}); !errors.Is(err, store.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
}

func TestEnqueueMalformedRunAt(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Enqueue(context.Background(), &job.Descriptor{
		ID:      "a",
		Command: "echo",
		RunAt:   "yesterday",
	})
	if !errors.Is(err, store.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
}

func TestEnqueueExplicitMaxRetries(t *testing.T) {
	st := newTestStore(t)

	jb := mustEnqueue(t, st, &job.Descriptor{
		ID:         "a",
		Command:    "echo",
		MaxRetries: intPtr(0),
	})
	if jb.MaxRetries != 0 {
		t.Fatalf("expected explicit max_retries 0, got %d", jb.MaxRetries)
	}
}

func TestEnqueueUpsertResets(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "false", MaxRetries: intPtr(3)})
	claimed, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Fail(ctx, claimed, time.Second); err != nil {
		t.Fatal(err)
	}

	jb := mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo hi", Priority: 5})
	if jb.State != job.Pending {
		t.Fatalf("expected pending after re-enqueue, got %v", jb.State)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected attempts reset, got %d", jb.Attempts)
	}
	if jb.Command != "echo hi" || jb.Priority != 5 {
		t.Fatal("expected command and priority to be replaced")
	}
	if jb.LockedBy != "" || jb.LockedAt != "" {
		t.Fatal("expected lock fields cleared")
	}

	jobs, err := st.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected a single row after upsert, got %d", len(jobs))
	}
}

func TestEnqueueIdempotent(t *testing.T) {
	st := newTestStore(t)

	d := &job.Descriptor{ID: "a", Command: "echo hi", Priority: 2}
	first := mustEnqueue(t, st, d)
	second := mustEnqueue(t, st, d)

	if first.State != second.State || first.Command != second.Command ||
		first.Attempts != second.Attempts || first.Priority != second.Priority {
		t.Fatal("expected identical payloads to yield the same row state")
	}
}
