package store_test

import (
	"context"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base, err := st.ConfigGet(ctx, "backoff_base")
	if err != nil {
		t.Fatal(err)
	}
	if base != "2" {
		t.Fatalf("expected default backoff_base 2, got %q", base)
	}
	n, err := st.ConfigInt(ctx, "default_max_retries")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected default_max_retries 3, got %d", n)
	}
}

func TestConfigSetOverrides(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.ConfigSet(ctx, "shutdown_flag", "1"); err != nil {
		t.Fatal(err)
	}
	flag, err := st.ConfigGet(ctx, "shutdown_flag")
	if err != nil {
		t.Fatal(err)
	}
	if flag != "1" {
		t.Fatalf("expected shutdown_flag 1, got %q", flag)
	}

	// Overwrite again, the row is upserted.
	if err := st.ConfigSet(ctx, "shutdown_flag", "0"); err != nil {
		t.Fatal(err)
	}
	flag, _ = st.ConfigGet(ctx, "shutdown_flag")
	if flag != "0" {
		t.Fatalf("expected shutdown_flag 0, got %q", flag)
	}
}

func TestConfigIntFallsBackOnGarbage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.ConfigSet(ctx, "poll_interval_seconds", "soon"); err != nil {
		t.Fatal(err)
	}
	n, err := st.ConfigInt(ctx, "poll_interval_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected fallback to default 1, got %d", n)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	st := newTestStore(t)

	value, err := st.ConfigGet(context.Background(), "no_such_key")
	if err != nil {
		t.Fatal(err)
	}
	if value != "" {
		t.Fatalf("expected empty value, got %q", value)
	}
}
