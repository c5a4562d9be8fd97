package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"runtrack/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrParticipationNotFound),
		errors.Is(err, domain.ErrMediaNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrNoActiveParticipation),
		errors.Is(err, domain.ErrRunNotStarted),
		errors.Is(err, domain.ErrInvalidRunDates),
		errors.Is(err, domain.ErrRunDatesInPast):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyFinished),
		errors.Is(err, domain.ErrParticipationExists),
		errors.Is(err, domain.ErrEmailExists):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
