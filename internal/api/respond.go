package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/layout"
	"github.com/pedigraph/pedigraph/pkg/store"
)

// errorResponse is the JSON shape of every error the API returns.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response",
			"err", err,
			"request_id", RequestIDFrom(r.Context()))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"err", err,
			"request_id", RequestIDFrom(r.Context()))
	} else {
		s.logger.Debug("request rejected",
			"err", err,
			"status", status,
			"request_id", RequestIDFrom(r.Context()))
	}

	s.respondJSON(w, r, status, errorResponse{
		Error:     apperrors.UserMessage(err),
		Code:      string(apperrors.GetCode(err)),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// statusForError maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, layout.ErrUnknownRoot),
		errors.Is(err, layout.ErrInvalidConfig),
		errors.Is(err, layout.ErrNilGraph):
		return http.StatusBadRequest
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeInvalidPerson,
		apperrors.ErrCodeInvalidConfig,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidDocument,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeUnknownRoot,
		apperrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeGraphNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
