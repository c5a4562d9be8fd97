package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

type ParticipationService struct {
	participationRepo output.ParticipationRepository
	userRepo          output.UserRepository
	runRepo           output.RunRepository
	publisher         output.Publisher
	logger            zerolog.Logger
}

func NewParticipationService(
	participationRepo output.ParticipationRepository,
	userRepo output.UserRepository,
	runRepo output.RunRepository,
	publisher output.Publisher,
	logger zerolog.Logger,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		userRepo:          userRepo,
		runRepo:           runRepo,
		publisher:         publisher,
		logger:            logger,
	}
}

// Enroll registers a user in a run. Both references must resolve; the
// (user, run) pair is unique, enforced by the database.
func (s *ParticipationService) Enroll(ctx context.Context, userID, runID uint) (*entities.Participation, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.runRepo.FindByID(ctx, runID); err != nil {
		return nil, err
	}
	participation := &entities.Participation{RunID: runID, UserID: userID}
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		return nil, err
	}
	return participation, nil
}

func (s *ParticipationService) GetParticipationByID(ctx context.Context, id uint) (*entities.Participation, error) {
	return s.participationRepo.FindByID(ctx, id)
}

func (s *ParticipationService) GetParticipationsByRunID(ctx context.Context, runID uint) ([]entities.Participation, error) {
	return s.participationRepo.FindByRunID(ctx, runID)
}

func (s *ParticipationService) GetParticipationsByUserID(ctx context.Context, userID uint) ([]entities.Participation, error) {
	return s.participationRepo.FindByUserID(ctx, userID)
}

func (s *ParticipationService) DeleteParticipation(ctx context.Context, id uint) error {
	return s.participationRepo.Delete(ctx, id)
}

// CorrectArrival rewrites an arrival time outside the scan workflow. Every
// correction is logged with the acting admin so the override trail is
// auditable.
func (s *ParticipationService) CorrectArrival(ctx context.Context, id uint, arrivalTime time.Time, actorID uint) (*entities.Participation, error) {
	participation, err := s.participationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := participation.ArrivalTime

	if err := s.participationRepo.OverrideArrival(ctx, id, arrivalTime); err != nil {
		return nil, fmt.Errorf("override arrival: %w", err)
	}
	participation.ArrivalTime = arrivalTime

	s.logger.Warn().
		Uint("participation_id", id).
		Uint("actor_id", actorID).
		Time("previous_arrival", previous).
		Time("new_arrival", arrivalTime).
		Msg("arrival time corrected by admin")

	s.publisher.ParticipationChanged(ctx, output.ParticipationEvent{
		Topic:           fmt.Sprintf("/participations/%d", id),
		ParticipationID: id,
		RunID:           participation.RunID,
		UserID:          participation.UserID,
		Status:          participation.Status(),
		ArrivalTime:     participation.ArrivalTime,
	})
	return participation, nil
}
