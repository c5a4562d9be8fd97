package output

import (
	"context"
	"time"

	"runtrack/internal/domain/entities"
)

type ParticipationRepository interface {
	Create(ctx context.Context, participation *entities.Participation) error
	FindByID(ctx context.Context, id uint) (*entities.Participation, error)
	FindByRunID(ctx context.Context, runID uint) ([]entities.Participation, error)
	FindByUserID(ctx context.Context, userID uint) ([]entities.Participation, error)
	// FindUnfinishedByUserID returns the user's participations with no
	// arrival yet, ordered by run id descending.
	FindUnfinishedByUserID(ctx context.Context, userID uint) ([]entities.Participation, error)
	// RecordArrival sets the arrival time if and only if it is still unset.
	// Returns domain.ErrAlreadyFinished when a concurrent writer got there
	// first, domain.ErrParticipationNotFound when the row is gone.
	RecordArrival(ctx context.Context, id uint, arrivalTime time.Time) error
	// OverrideArrival unconditionally rewrites the arrival time. Reserved
	// for the audited admin correction path.
	OverrideArrival(ctx context.Context, id uint, arrivalTime time.Time) error
	Delete(ctx context.Context, id uint) error
}
