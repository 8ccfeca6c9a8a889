// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"
	"github.com/ManuGH/ffplan/internal/job"
	"github.com/ManuGH/ffplan/internal/log"
)

// APIError is the JSON error body.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Error codes.
const (
	CodeInvalidJob       = "INVALID_JOB"
	CodeNoVideoStream    = "NO_VIDEO_STREAM"
	CodeCapabilityFailed = "CAPABILITY_QUERY_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// classify maps a planning error to an HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, job.ErrInvalidJob):
		return http.StatusBadRequest, CodeInvalidJob
	case errors.Is(err, pipeline.ErrNoVideoStream):
		return http.StatusUnprocessableEntity, CodeNoVideoStream
	case errors.Is(err, pipeline.ErrCapabilityQuery):
		return http.StatusServiceUnavailable, CodeCapabilityFailed
	}
	return http.StatusInternalServerError, CodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, APIError{
		Code:      code,
		Message:   msg,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
