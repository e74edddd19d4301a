// Package store provides the bun-based SQLite persistence layer for
// queuectl.
//
// # Overview
//
// The store owns four collections in a single database file:
//
//   - jobs     — the durable job state machine
//   - dlq      — dead-letter records for exhausted jobs
//   - config   — engine configuration as key/value rows
//   - workers  — the live worker registry
//
// It exposes the transactional primitives the engine is built on:
// conditional single-row updates checked via rows-affected counts
// (the claim protocol and all state transitions) and multi-mutation
// transactions (retry policy, DLQ requeue, cleaning).
//
// # Timestamps
//
// All timestamps are stored as ISO-8601 UTC strings with second
// precision. Scheduling predicates compare stamps lexically, which is
// equivalent to chronological order at that fixed width.
//
// # Concurrency Model
//
// Claim uses a select-then-conditional-update pattern: the candidate
// row is transitioned to processing only while it is still pending,
// so of N concurrent claimers exactly one observes a non-zero
// rows-affected count and wins. No table lock is required.
//
// The database is opened in WAL journal mode with a busy timeout so
// concurrent readers and writers from workers, the HTTP API and the
// CLI do not block each other except briefly during commit.
//
// # Schema
//
// Open creates (idempotently, inside a transaction) the four tables,
// the claim and listing indexes on jobs, and the default
// configuration rows. No destructive migration is ever performed.
package store
