package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/humantools/internal/pipeline"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	res, ok := job.Result()
	if !ok {
		snap := job.Snapshot()
		code := http.StatusConflict
		if snap.Status == pipeline.StatusFailed {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, map[string]any{
			"error":    "job has no result",
			"status":   snap.Status,
			"progress": snap.Progress,
		})
		return
	}
	writeFile(w, res.Name, res.ContentType, res.Data)
}
