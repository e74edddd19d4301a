// Package api exposes the queue over HTTP for the dashboard: job and
// DLQ listings, per-job log retrieval, status counts, DLQ requeue and
// job deletion.
//
// The surface is JSON over HTTP with permissive CORS; the dashboard
// is treated as an untrusted browser client. All state lives in the
// shared store, the server itself is stateless.
package api
