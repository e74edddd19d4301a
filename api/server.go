package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/romanqed/queuectl/store"
)

// Default configuration values for the HTTP server.
const (
	DefaultAddr              = ":8080"
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
)

// Server exposes the queue's read-only dashboard surface over HTTP:
// job and DLQ listings, per-job log retrieval, status counts, DLQ
// requeue and job deletion.
//
// The server holds no state of its own; every request reads or
// mutates the shared store. CORS is permissive, the dashboard is an
// untrusted browser client.
type Server struct {
	store  *store.Store
	log    *slog.Logger
	server *http.Server
}

// New creates a Server bound to addr over the given store. An empty
// addr falls back to DefaultAddr.
func New(st *store.Store, addr string, log *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		store: st,
		log:   log,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(s.logMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/jobs", s.handleJobs)
	r.Get("/dlq", s.handleDLQ)
	r.Get("/logs/{jobID}", s.handleLog)
	r.Get("/status", s.handleStatus)
	r.Post("/dlq/retry/{jobID}", s.handleDLQRetry)
	r.Delete("/jobs/{jobID}", s.handleDelete)

	return r
}

// Handler returns the HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the server until it is shut down. http.ErrServerClosed
// is filtered out as a normal exit.
func (s *Server) Start() error {
	s.log.Info("starting dashboard API", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
