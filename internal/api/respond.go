package api

import (
	"encoding/json"
	"errors"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"log/slog"
	"net/http"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, query.ErrInvalidParam):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUserNotFound), errors.Is(err, storage.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged in full
// and reach the client only as a generic message.
func (s *APIServer) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", w.Header().Get(requestIDHeader)),
			"error", err,
		)
		writeError(w, status, internalErrorMessage)
		return
	}

	if msg == "" {
		msg = err.Error()
	}
	writeError(w, status, msg)
}
