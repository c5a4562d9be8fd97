package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"runtrack/internal/domain/entities"
	"runtrack/internal/policy"
)

type enrollRequest struct {
	UserID uint `json:"userId"`
	RunID  uint `json:"runId"`
}

func (s *Server) handleCreateParticipation(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.UserID == 0 || req.RunID == 0 {
		writeErrorMessage(w, http.StatusBadRequest, "userId and runId are required")
		return
	}
	participation, err := s.participations.Enroll(r.Context(), req.UserID, req.RunID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipationResponse(participation, time.Time{}))
}

// handleListParticipations filters by run or user, mirroring the search
// filters of the admin console.
func (s *Server) handleListParticipations(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	if raw := r.URL.Query().Get("run"); raw != "" {
		if !policy.Allow(actor, policy.ResourceParticipation, policy.ActionRead) {
			writeErrorMessage(w, http.StatusForbidden, "forbidden")
			return
		}
		runID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid run filter")
			return
		}
		run, err := s.runs.GetRunByID(r.Context(), uint(runID))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]participationResponse, 0, len(run.Participations))
		for i := range run.Participations {
			out = append(out, toParticipationResponse(&run.Participations[i], run.StartDate))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	if raw := r.URL.Query().Get("user"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid user filter")
			return
		}
		if !policy.AllowSelf(actor, uint(userID), policy.ResourceParticipation, policy.ActionRead) {
			writeErrorMessage(w, http.StatusForbidden, "forbidden")
			return
		}
		participations, err := s.participations.GetParticipationsByUserID(r.Context(), uint(userID))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]participationResponse, 0, len(participations))
		for i := range participations {
			out = append(out, s.participationWithRunStart(r, &participations[i]))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	writeErrorMessage(w, http.StatusBadRequest, "run or user filter is required")
}

func (s *Server) handleGetParticipation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	participation, err := s.participations.GetParticipationByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	actor, _ := actorFromContext(r.Context())
	if !policy.AllowSelf(actor, participation.UserID, policy.ResourceParticipation, policy.ActionRead) {
		writeErrorMessage(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, s.participationWithRunStart(r, participation))
}

func (s *Server) handleDeleteParticipation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.participations.DeleteParticipation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type correctArrivalRequest struct {
	ArrivalTime *time.Time `json:"arrivalTime"`
}

// handleCorrectArrival is the audited admin override; a null arrivalTime
// reopens the participation.
func (s *Server) handleCorrectArrival(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req correctArrivalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	actor, _ := actorFromContext(r.Context())
	var arrivalTime time.Time
	if req.ArrivalTime != nil {
		arrivalTime = *req.ArrivalTime
	}
	participation, err := s.participations.CorrectArrival(r.Context(), id, arrivalTime, actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.participationWithRunStart(r, participation))
}

// participationWithRunStart resolves the run start so derived fields can be
// computed; a missing run degrades to a response without totalTime.
func (s *Server) participationWithRunStart(r *http.Request, p *entities.Participation) participationResponse {
	runStart := time.Time{}
	if run, err := s.runs.GetRunByID(r.Context(), p.RunID); err == nil {
		runStart = run.StartDate
	}
	return toParticipationResponse(p, runStart)
}
