// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/ManuGH/ffplan/internal/job"
)

// handleCreatePlan plans one job posted as JSON.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	spec, err := job.DecodeJSON(http.MaxBytesReader(w, r.Body, maxJobBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := spec.PipelineInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.currentPlanner().Build(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc := plan.Document(spec.Input, spec.Output)
	doc.Job = spec.Name
	writeJSON(w, http.StatusOK, doc)
}
