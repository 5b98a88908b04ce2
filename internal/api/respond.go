package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/dgallion1/shopadmin/internal/selection"
)

// maxJSONBody bounds selection request bodies.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes {"error": msg, "code": code}.
func jsonError(w http.ResponseWriter, msg, code string, status int) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), "bad_request", http.StatusBadRequest)
		return false
	}
	return true
}

// selectionError maps engine errors to responses.
func (s *Server) selectionError(w http.ResponseWriter, err error) {
	var unknown *selection.UnknownIDError
	var mismatch *selection.ParentMismatchError
	switch {
	case errors.As(err, &unknown):
		jsonError(w, err.Error(), "unknown_id", http.StatusUnprocessableEntity)
	case errors.As(err, &mismatch):
		jsonError(w, err.Error(), "parent_mismatch", http.StatusConflict)
	default:
		s.log.Error("selection failed", "error", err)
		jsonError(w, "internal error", "internal", http.StatusInternalServerError)
	}
}

// forestError maps snapshot failures to responses.
func (s *Server) forestError(w http.ResponseWriter, err error) {
	if errors.Is(err, categorytree.ErrIntegrity) {
		jsonError(w, err.Error(), "integrity", http.StatusBadGateway)
		return
	}
	jsonError(w, "category forest unavailable: "+err.Error(), "catalog_unavailable", http.StatusServiceUnavailable)
}
