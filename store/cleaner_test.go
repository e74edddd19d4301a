package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

func TestCleanCompleted(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo"})
	jb := claimOne(t, st, "w1")
	if err := st.Complete(ctx, jb); err != nil {
		t.Fatal(err)
	}
	mustEnqueue(t, st, &job.Descriptor{ID: "keep", Command: "echo"})

	count, err := st.Clean(ctx, job.Completed, "")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cleaned job, got %d", count)
	}
	kept, err := st.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 || kept[0].ID != "keep" {
		t.Fatalf("expected only the pending job to remain, got %v", kept)
	}
}

func TestCleanRejectsNonTerminal(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Clean(context.Background(), job.Pending, "")
	if !errors.Is(err, store.ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestCleanDeadCascadesToDLQ(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "b", Command: "false", MaxRetries: intPtr(0)})
	jb := claimOne(t, st, "w1")
	if err := st.Fail(ctx, jb, 0); err != nil {
		t.Fatal(err)
	}

	count, err := st.Clean(ctx, job.Dead, "")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cleaned job, got %d", count)
	}
	entries, err := st.DeadLetters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected DLQ entry removed with its job, got %d", len(entries))
	}
}

func TestCleanBeforeFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo"})
	jb := claimOne(t, st, "w1")
	if err := st.Complete(ctx, jb); err != nil {
		t.Fatal(err)
	}

	// Cutoff in the past matches nothing.
	count, err := st.Clean(ctx, job.Completed, clock.In(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected nothing cleaned, got %d", count)
	}
}
