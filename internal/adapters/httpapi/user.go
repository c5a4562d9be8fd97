package httpapi

import (
	"encoding/json"
	"net/http"

	"runtrack/internal/domain/entities"
)

type createUserRequest struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Surname      string   `json:"surname"`
	Email        string   `json:"email"`
	Organization string   `json:"organization"`
	Roles        []string `json:"roles"`
	Password     string   `json:"password"`
	// EnrollInRuns requests one participation per existing run, the way the
	// registration desk onboards a runner mid-event.
	EnrollInRuns bool `json:"enrollInRuns"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeErrorMessage(w, http.StatusBadRequest, "firstName and lastName are required")
		return
	}
	user := &entities.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Surname:      req.Surname,
		Email:        req.Email,
		Organization: req.Organization,
		Roles:        req.Roles,
	}
	if err := s.users.CreateUser(r.Context(), user, req.Password, req.EnrollInRuns); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	user, err := s.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	Surname      *string   `json:"surname"`
	Email        *string   `json:"email"`
	Organization *string   `json:"organization"`
	Roles        *[]string `json:"roles"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	user, err := s.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Organization != nil {
		user.Organization = *req.Organization
	}
	if req.Roles != nil {
		user.Roles = *req.Roles
	}
	if err := s.users.UpdateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnrollUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if _, err := s.users.GetUserByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.users.EnrollInAllRuns(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"enrolled": created})
}

func (s *Server) handlePublicUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicUserResponse, 0, len(users))
	for i := range users {
		out = append(out, toPublicUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePublicUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	user, err := s.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPublicUserResponse(user))
}

// handleResults serves the public results board, recomputed on read.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.users.GetResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]resultResponse, 0, len(results))
	for i := range results {
		out = append(out, resultResponse{
			User:                        toPublicUserResponse(&results[i].User),
			FinishedParticipationsCount: results[i].FinishedParticipationsCount,
			DistanceKm:                  results[i].DistanceKm(),
			TotalSeconds:                results[i].TotalSeconds,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
