// Package handler holds the response helpers shared by the HTTP routes.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/similarity"
	"github.com/mager/soundprint/soundprint"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	var pe *soundprint.ProviderError
	switch {
	case errors.Is(err, spotify.ErrInvalidReference), errors.Is(err, similarity.ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound), errors.Is(err, similarity.ErrTargetNotFound):
		return http.StatusNotFound
	case errors.As(err, &pe):
		if pe.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON encodes v with the given status. A value that cannot be encoded
// is logged and answered with a 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		zap.S().Errorw("Error encoding response", "status", status, "err", err)
		status = http.StatusInternalServerError
		b, _ = json.Marshal(ErrorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(b, '\n'))
}

// WriteError writes {"error": "..."} with the status matching err.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), ErrorResponse{Error: err.Error()})
}
