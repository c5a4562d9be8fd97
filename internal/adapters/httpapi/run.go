package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"runtrack/internal/domain/entities"
)

type runRequest struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	RunnerID  uint       `json:"runnerId"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	run := &entities.Run{StartDate: req.StartDate, RunnerID: req.RunnerID}
	if req.EndDate != nil {
		run.EndDate = *req.EndDate
	}
	if err := s.runs.CreateRun(r.Context(), run); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunResponse(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.GetRuns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]runResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	run, err := s.runs.GetRunByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(run))
}

func (s *Server) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	run, err := s.runs.GetRunByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
		RunnerID  *uint      `json:"runnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.StartDate != nil {
		run.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		run.EndDate = *req.EndDate
	}
	if req.RunnerID != nil {
		run.RunnerID = *req.RunnerID
	}
	if err := s.runs.UpdateRun(r.Context(), run); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(run))
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.runs.DeleteRun(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
