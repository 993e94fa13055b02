package api

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urban-insight/insight-api/internal/spatial"
	"github.com/urban-insight/insight-api/internal/urban"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondServiceError maps domain errors to status codes: unknown lookups to
// 404, bad parameters to 400, anything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, urban.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case eris.Is(err, urban.ErrInvalidParameter), eris.Is(err, spatial.ErrInvalidCoordinate):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("api: request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
