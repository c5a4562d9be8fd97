package httpapi

import (
	"time"

	"runtrack/internal/domain/entities"
)

type userResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Surname      string    `json:"surname,omitempty"`
	Email        string    `json:"email,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// publicUserResponse omits email and roles for the public read surface.
type publicUserResponse struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Surname      string `json:"surname,omitempty"`
	Organization string `json:"organization,omitempty"`
}

type runResponse struct {
	ID                          uint                    `json:"id"`
	StartDate                   time.Time               `json:"startDate"`
	EndDate                     *time.Time              `json:"endDate,omitempty"`
	RunnerID                    uint                    `json:"runnerId,omitempty"`
	ParticipantsCount           int                     `json:"participantsCount"`
	InProgressParticipantsCount int                     `json:"inProgressParticipantsCount"`
	FinishedParticipantsCount   int                     `json:"finishedParticipantsCount"`
	Participations              []participationResponse `json:"participations"`
}

type participationResponse struct {
	ID          uint       `json:"id"`
	RunID       uint       `json:"runId"`
	UserID      uint       `json:"userId"`
	ArrivalTime *time.Time `json:"arrivalTime,omitempty"`
	Status      string     `json:"status"`
	TotalTime   *int64     `json:"totalTime,omitempty"`
}

type resultResponse struct {
	User                        publicUserResponse `json:"user"`
	FinishedParticipationsCount int                `json:"finishedParticipationsCount"`
	DistanceKm                  int                `json:"distanceKm"`
	TotalSeconds                int64              `json:"totalSeconds"`
}

type finishResponse struct {
	Message       string                `json:"message"`
	Participation participationResponse `json:"participation"`
}

func toUserResponse(u *entities.User) userResponse {
	return userResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Surname:      u.Surname,
		Email:        u.Email,
		Organization: u.Organization,
		Roles:        u.EffectiveRoles(),
		CreatedAt:    u.CreatedAt,
	}
}

func toPublicUserResponse(u *entities.User) publicUserResponse {
	return publicUserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Surname:      u.Surname,
		Organization: u.Organization,
	}
}

// toParticipationResponse derives status and, when the run start is known
// and the participation finished, the elapsed time.
func toParticipationResponse(p *entities.Participation, runStart time.Time) participationResponse {
	resp := participationResponse{
		ID:     p.ID,
		RunID:  p.RunID,
		UserID: p.UserID,
		Status: p.Status(),
	}
	if p.IsFinished() {
		arrival := p.ArrivalTime
		resp.ArrivalTime = &arrival
		if !runStart.IsZero() {
			if seconds, ok := p.TotalTime(runStart); ok {
				resp.TotalTime = &seconds
			}
		}
	}
	return resp
}

func toRunResponse(run *entities.Run) runResponse {
	resp := runResponse{
		ID:                          run.ID,
		StartDate:                   run.StartDate,
		RunnerID:                    run.RunnerID,
		ParticipantsCount:           run.ParticipantsCount(),
		InProgressParticipantsCount: run.InProgressParticipantsCount(),
		FinishedParticipantsCount:   run.FinishedParticipantsCount(),
		Participations:              make([]participationResponse, 0, len(run.Participations)),
	}
	if run.HasEndDate() {
		end := run.EndDate
		resp.EndDate = &end
	}
	for i := range run.Participations {
		resp.Participations = append(resp.Participations, toParticipationResponse(&run.Participations[i], run.StartDate))
	}
	return resp
}
