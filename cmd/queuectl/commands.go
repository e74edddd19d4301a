package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romanqed/queuectl"
	"github.com/romanqed/queuectl/api"
	"github.com/romanqed/queuectl/internal/clock"
	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

const stopTimeout = 30 * time.Second

func openStore(ctx context.Context, settings *Settings) (*store.Store, error) {
	return store.Open(ctx, settings.DB)
}

func cmdEnqueue(ctx context.Context, settings *Settings, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("enqueue expects exactly one job_json argument")
	}
	raw := []byte(args[0])
	if len(args[0]) > 0 && args[0][0] == '@' {
		content, err := os.ReadFile(args[0][1:])
		if err != nil {
			return fmt.Errorf("read job file: %w", err)
		}
		raw = content
	}
	var d job.Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("%w: malformed job JSON: %v", store.ErrBadInput, err)
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	jb, err := st.Enqueue(ctx, &d)
	if err != nil {
		return err
	}
	fmt.Printf("Enqueued job %s (priority=%d, run_at=%s)\n", jb.ID, jb.Priority, jb.RunAt)
	return nil
}

func cmdStatus(ctx context.Context, settings *Settings) error {
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	workers, err := st.WorkerCount(ctx)
	if err != nil {
		return err
	}
	counts, err := st.CountByState(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Workers: %d\n", workers)
	for _, state := range job.States {
		fmt.Printf("%-10s %d\n", state, counts[state])
	}
	return nil
}

func cmdList(ctx context.Context, settings *Settings, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	stateArg := fs.String("state", "", "filter by job state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var state job.State
	if *stateArg != "" {
		parsed, err := job.ParseState(*stateArg)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrBadInput, err)
		}
		state = parsed
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	jobs, err := st.List(ctx, state)
	if err != nil {
		return err
	}
	for _, jb := range jobs {
		line, err := json.Marshal(jb)
		if err != nil {
			return err
		}
		fmt.Println(string(line))
	}
	return nil
}

func cmdWorker(ctx context.Context, settings *Settings, log *slog.Logger, args []string) error {
	if len(args) == 0 || args[0] != "start" {
		return fmt.Errorf("usage: queuectl worker start [--count <n>]")
	}
	fs := flag.NewFlagSet("worker start", flag.ContinueOnError)
	count := fs.Int("count", 1, "number of workers to run")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.ConfigSet(ctx, store.KeyShutdownFlag, "0"); err != nil {
		return err
	}
	pool := queuectl.NewPool(st, &queuectl.PoolConfig{Count: *count}, log)
	if err := pool.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Started %d worker(s). Press Ctrl+C to stop.\n", *count)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nStopping workers...")
	if err := st.ConfigSet(ctx, store.KeyShutdownFlag, "1"); err != nil {
		log.Error("cannot raise shutdown flag", "err", err)
	}
	return pool.Stop(stopTimeout)
}

func cmdDLQ(ctx context.Context, settings *Settings, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: queuectl dlq <list|retry>")
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	switch args[0] {
	case "list":
		entries, err := st.DeadLetters(ctx)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			line, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			fmt.Println(string(line))
		}
		return nil
	case "retry":
		if len(args) != 2 {
			return fmt.Errorf("usage: queuectl dlq retry <job_id>")
		}
		if err := st.RequeueDead(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("Requeued DLQ job %s\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown dlq command %q", args[0])
	}
}

func cmdServe(ctx context.Context, settings *Settings, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", settings.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	srv := api.New(st, *addr, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cmdClean(ctx context.Context, settings *Settings, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	stateArg := fs.String("state", "", "terminal state to clean (completed|dead, default both)")
	olderThan := fs.Duration("older-than", 0, "only clean jobs older than this duration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var state job.State
	if *stateArg != "" {
		parsed, err := job.ParseState(*stateArg)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrBadInput, err)
		}
		state = parsed
	}
	before := ""
	if *olderThan > 0 {
		before = clock.In(-*olderThan)
	}
	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	count, err := st.Clean(ctx, state, before)
	if err != nil {
		return err
	}
	fmt.Printf("Cleaned %d job(s)\n", count)
	return nil
}
