package api

import (
	"net/http"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/dgallion1/shopadmin/internal/metrics"
	"github.com/dgallion1/shopadmin/internal/selection"
)

type toggleRequest struct {
	Selection []string `json:"selection"`
	Target    string   `json:"target"`
	Parent    string   `json:"parent,omitempty"`
	// Targets applies several toggles in order; Target, if set, runs first.
	Targets []string `json:"targets,omitempty"`
}

type normalizeRequest struct {
	Selection []string `json:"selection"`
}

type coverageRequest struct {
	Selection []string `json:"selection"`
	IDs       []string `json:"ids,omitempty"`
}

type viewRequest struct {
	Selection []string `json:"selection"`
	Expanded  []string `json:"expanded,omitempty"`
	ExpandAll bool     `json:"expand_all,omitempty"`
	Reveal    []string `json:"reveal,omitempty"`
}

// engine returns an engine over the current forest, or writes the failure.
func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*selection.Engine, bool) {
	snap, err := s.forests.Snapshot(r.Context())
	if err != nil {
		s.forestError(w, err)
		return nil, false
	}
	return selection.New(snap.Index), true
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Target == "" && len(req.Targets) == 0 {
		jsonError(w, "target is required", "bad_request", http.StatusBadRequest)
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}

	sel := eng.Normalize(req.Selection)
	if req.Target != "" {
		var opts []selection.ToggleOption
		if req.Parent != "" {
			opts = append(opts, selection.WithParent(req.Parent))
		}
		next, err := eng.Toggle(sel, req.Target, opts...)
		if err != nil {
			metrics.SelectionOps.WithLabelValues("toggle", "error").Inc()
			s.selectionError(w, err)
			return
		}
		sel = next
	}
	if len(req.Targets) > 0 {
		next, err := eng.Apply(sel, req.Targets...)
		if err != nil {
			metrics.SelectionOps.WithLabelValues("toggle", "error").Inc()
			s.selectionError(w, err)
			return
		}
		sel = next
	}
	metrics.SelectionOps.WithLabelValues("toggle", "ok").Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"selection": sel,
		"leaves":    len(eng.Leaves(sel)),
	})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}
	canonical, dropped := selection.NormalizeReport(eng.Index(), req.Selection)
	metrics.SelectionOps.WithLabelValues("normalize", "ok").Inc()
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selection": canonical,
		"dropped":   dropped,
	})
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}

	all := eng.Coverage(req.Selection)
	out := all
	if len(req.IDs) > 0 {
		out = make(map[string]selection.State, len(req.IDs))
		for _, id := range req.IDs {
			st, ok := all[id]
			if !ok {
				metrics.SelectionOps.WithLabelValues("coverage", "error").Inc()
				s.selectionError(w, &selection.UnknownIDError{ID: id})
				return
			}
			out[id] = st
		}
	}
	metrics.SelectionOps.WithLabelValues("coverage", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"coverage": out})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}

	expanded := categorytree.NewExpandSet(req.Expanded...)
	if req.ExpandAll {
		expanded = categorytree.ExpandAll(eng.Index())
	}
	for _, id := range req.Reveal {
		expanded = expanded.ExpandTo(eng.Index(), id)
	}

	rows := eng.View(req.Selection, expanded)
	if rows == nil {
		rows = []selection.ViewRow{}
	}
	metrics.SelectionOps.WithLabelValues("view", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":     rows,
		"expanded": expanded.IDs(),
	})
}
