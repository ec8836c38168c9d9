package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foxseedlab/kasirsuara/internal/pipeline"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to write response body", "error", err)
	}
}

func writeRequestError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeError maps a pipeline error onto an HTTP response. Client errors
// carry the underlying detail; server errors do not.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)
	resp := errorResponse{Error: code, Message: message}
	if stage, ok := pipeline.FailedStage(err); ok {
		resp.Stage = string(stage)
	}
	if status < http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	slog.Log(r.Context(), levelFor(status), "request failed",
		"status", status,
		"error", err,
		"stage", resp.Stage,
		"path", r.URL.Path,
	)
	writeJSON(w, status, resp)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", messageInvalidInput
	case errors.Is(err, pipeline.ErrDraftInvalid):
		return http.StatusUnprocessableEntity, "draft_invalid", messageDraftInvalid
	case errors.Is(err, pipeline.ErrStockConflict):
		return http.StatusConflict, "stock_conflict", messageStockConflict
	case errors.Is(err, pipeline.ErrExternalCapability):
		return http.StatusBadGateway, "external_capability", messageExternalCapability
	case errors.Is(err, pipeline.ErrDataAccess):
		return http.StatusServiceUnavailable, "data_access", messageDataAccess
	default:
		return http.StatusInternalServerError, "internal", messageInternalError
	}
}

func levelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
