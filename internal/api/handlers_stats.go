package api

import (
	"net/http"
)

func (s *Server) handleToolStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"tools":       s.tools.Stats().Snapshot(),
	})
}
