package store_test

import (
	"context"
	"testing"

	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func mustEnqueue(t *testing.T, st *store.Store, d *job.Descriptor) *job.Job {
	t.Helper()
	jb, err := st.Enqueue(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	return jb
}

func intPtr(n int) *int {
	return &n
}
