package input

import (
	"context"
	"time"

	"runtrack/internal/domain/entities"
)

type ParticipationUseCase interface {
	Enroll(ctx context.Context, userID, runID uint) (*entities.Participation, error)
	GetParticipationByID(ctx context.Context, id uint) (*entities.Participation, error)
	GetParticipationsByRunID(ctx context.Context, runID uint) ([]entities.Participation, error)
	GetParticipationsByUserID(ctx context.Context, userID uint) ([]entities.Participation, error)
	DeleteParticipation(ctx context.Context, id uint) error
	// CorrectArrival is the audited admin override of an arrival time; it is
	// not part of the scan workflow.
	CorrectArrival(ctx context.Context, id uint, arrivalTime time.Time, actorID uint) (*entities.Participation, error)
}
