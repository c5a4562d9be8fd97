package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"runtrack/internal/domain"
)

type finishRequest struct {
	// RawValue is the JSON extracted from the scanned DataMatrix code.
	RawValue string `json:"rawValue"`
}

// handleRegisterFinish is the scan input boundary: it submits the raw
// payload of a scanned code and returns the stamped participation, or the
// localized reason the scan was rejected.
func (s *Server) handleRegisterFinish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	locale := localeFromRequest(r)
	participation, message, err := s.finish.RegisterFinish(r.Context(), locale, req.RawValue)
	if err != nil {
		if message == "" {
			// No operator feedback: not a scan outcome, map the error itself.
			writeError(w, err)
			return
		}
		status := finishErrorStatus(err)
		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	run, err := s.runs.GetRunByID(r.Context(), participation.RunID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finishResponse{
		Message:       message,
		Participation: toParticipationResponse(participation, run.StartDate),
	})
}

func finishErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyFinished):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrNoActiveParticipation),
		errors.Is(err, domain.ErrRunNotStarted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
