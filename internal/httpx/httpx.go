// Package httpx holds the response helpers shared by every handler package:
// the JSON error envelope and the mapping from domain errors to HTTP codes.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
)

// WriteJSON encodes data with the given status.
func WriteJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteError writes the {"detail": "..."} envelope.
func WriteError(w http.ResponseWriter, log zerolog.Logger, status int, message string) {
	WriteJSON(w, log, status, map[string]string{"detail": message})
}

// WriteDomainError maps a domain error onto its HTTP status and writes the
// envelope with the error's message.
func WriteDomainError(w http.ResponseWriter, log zerolog.Logger, err error) {
	WriteError(w, log, StatusFromError(err), err.Error())
}

// StatusFromError maps the domain error taxonomy to HTTP codes. 499 follows
// nginx's convention for client-closed requests.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidScenario),
		errors.Is(err, domain.ErrInvalidRegime),
		errors.Is(err, domain.ErrInvalidFramework),
		errors.Is(err, domain.ErrInvalidYear):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidFacility),
		errors.Is(err, domain.ErrDuplicateFacility):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, domain.ErrCancelled):
		return 499
	case errors.Is(err, domain.ErrWeatherUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
