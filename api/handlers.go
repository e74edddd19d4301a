package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/romanqed/queuectl/job"
	"github.com/romanqed/queuectl/store"
)

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListByUpdated(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*job.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleDLQ(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.DeadLetters(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*job.DeadLetter{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleLog serves the lexically latest log artifact for a job as
// plain text. Attempt files share the <id>__<unix_seconds> prefix, so
// a reverse filename sort yields the newest attempt first.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	logDir, err := s.store.ConfigGet(r.Context(), store.KeyLogDir)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	files, err := filepath.Glob(filepath.Join(logDir, jobID+"__*.log"))
	if err != nil || len(files) == 0 {
		writeError(w, http.StatusNotFound, "no log found for this job")
		return
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	content, err := os.ReadFile(files[0])
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByState(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	workers, err := s.store.WorkerCount(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jobs := make(map[string]int, len(counts))
	for state, count := range counts {
		jobs[state.String()] = count
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workers": workers,
		"jobs":    jobs,
	})
}

func (s *Server) handleDLQRetry(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.store.RequeueDead(r.Context(), jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found in DLQ")
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.log.Info("dead letter job requeued", "id", jobID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Job %s requeued successfully", jobID),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.store.Delete(r.Context(), jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.log.Info("job deleted", "id", jobID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Job %s deleted successfully", jobID),
	})
}
