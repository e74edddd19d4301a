package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
)

func TestClaimLocksJob(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo hi"})

	jb, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected a claimed job")
	}
	if jb.State != job.Processing {
		t.Fatalf("expected processing, got %v", jb.State)
	}
	if jb.LockedBy != "w1" || jb.LockedAt == "" {
		t.Fatalf("expected lock fields bound to w1, got %q/%q", jb.LockedBy, jb.LockedAt)
	}

	// A locked job is not claimable again.
	second, err := st.Claim(ctx, "w2")
	if err != nil {
		t.Fatal(err)
	}
	if second != nil {
		t.Fatalf("expected no claimable job, got %s", second.ID)
	}
}

func TestClaimEmptyQueue(t *testing.T) {
	st := newTestStore(t)

	jb, err := st.Claim(context.Background(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if jb != nil {
		t.Fatal("expected nothing to claim")
	}
}

func TestClaimPriorityOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "lo", Command: "sleep 0", Priority: 0})
	mustEnqueue(t, st, &job.Descriptor{ID: "hi", Command: "sleep 0", Priority: 10})

	first, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.ID != "hi" {
		t.Fatalf("expected hi to be claimed first, got %v", first)
	}
	second, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if second == nil || second.ID != "lo" {
		t.Fatalf("expected lo to be claimed second, got %v", second)
	}
}

func TestClaimIdTieBreak(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Same priority and (at second resolution) same created_at.
	mustEnqueue(t, st, &job.Descriptor{ID: "b", Command: "echo"})
	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo"})

	first, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.ID != "a" {
		t.Fatalf("expected id tie-break to pick a, got %v", first)
	}
}

func TestClaimHonorsRunAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{
		ID:      "d",
		Command: "echo x",
		RunAt:   clock.In(time.Hour),
	})

	jb, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if jb != nil {
		t.Fatalf("expected delayed job to stay unclaimed, got %s", jb.ID)
	}
	got, err := st.Get(ctx, "d")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending || got.NextRunAt != got.RunAt {
		t.Fatalf("expected pending with next_run_at = run_at, got %v", got)
	}
}

func TestClaimHonorsBackoffSchedule(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "false", MaxRetries: intPtr(3)})
	jb, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Fail(ctx, jb, time.Hour); err != nil {
		t.Fatal(err)
	}

	again, err := st.Claim(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Fatal("expected backed-off job to stay unclaimed")
	}
}

func TestClaimExclusive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo hi"})

	const claimers = 8
	var wg sync.WaitGroup
	results := make([]*job.Job, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			jb, err := st.Claim(ctx, "w")
			if err != nil {
				t.Error(err)
				return
			}
			results[n] = jb
		}(i)
	}
	wg.Wait()

	won := 0
	for _, jb := range results {
		if jb != nil {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winning claim, got %d", won)
	}
}

func TestRecoverStuck(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.RegisterWorker(ctx, "alive"); err != nil {
		t.Fatal(err)
	}
	mustEnqueue(t, st, &job.Descriptor{ID: "a", Command: "echo"})
	mustEnqueue(t, st, &job.Descriptor{ID: "b", Command: "echo"})

	wedged, err := st.Claim(ctx, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	owned, err := st.Claim(ctx, "alive")
	if err != nil {
		t.Fatal(err)
	}

	recovered, err := st.RecoverStuck(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if recovered != 1 {
		t.Fatalf("expected 1 recovered job, got %d", recovered)
	}

	got, err := st.Get(ctx, wedged.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending || got.LockedBy != "" || got.LockedAt != "" {
		t.Fatalf("expected wedged job reset to pending, got %v", got)
	}

	got, err = st.Get(ctx, owned.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Processing || got.LockedBy != "alive" {
		t.Fatalf("expected owned job untouched, got %v", got)
	}
}
