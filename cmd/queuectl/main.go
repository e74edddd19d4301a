// Command queuectl manages the durable shell-job queue: enqueueing
// jobs, running workers, inspecting state, requeueing the DLQ and
// serving the dashboard API.
package main

import (
	"context"
	"fmt"
	"os"
)

const usageText = `usage: queuectl <command> [options]

commands:
  enqueue <job_json>          enqueue a job (JSON literal or @file)
  status                      print worker and per-state job counts
  list [--state <s>]          print jobs as JSON, one per line
  worker start [--count <n>]  run workers until interrupted
  dlq list                    print dead-letter entries as JSON
  dlq retry <job_id>          requeue a dead-letter job
  serve [--addr <addr>]       run the dashboard HTTP API
  clean [--state <s>] [--older-than <dur>]
                              delete terminal jobs
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "queuectl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}
	settings := loadSettings()
	log := newLogger(settings.LogLevel)
	switch args[0] {
	case "enqueue":
		return cmdEnqueue(ctx, settings, args[1:])
	case "status":
		return cmdStatus(ctx, settings)
	case "list":
		return cmdList(ctx, settings, args[1:])
	case "worker":
		return cmdWorker(ctx, settings, log, args[1:])
	case "dlq":
		return cmdDLQ(ctx, settings, args[1:])
	case "serve":
		return cmdServe(ctx, settings, log, args[1:])
	case "clean":
		return cmdClean(ctx, settings, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}
