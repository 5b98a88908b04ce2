package api

import (
	"net/http"
	"time"
)

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.forests.Snapshot(r.Context())
	if err != nil {
		s.forestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": snap.Forest,
		"stats":      snap.Index.Stats(),
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
	})
}
