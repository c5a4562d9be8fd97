package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

// FinishService implements the finish-scan workflow:
// decode payload -> resolve open participation -> validate timing window ->
// record arrival -> publish change event.
type FinishService struct {
	userRepo          output.UserRepository
	runRepo           output.RunRepository
	participationRepo output.ParticipationRepository
	publisher         output.Publisher
	clock             output.Clock
	translator        output.T
	logger            zerolog.Logger
}

func NewFinishService(
	userRepo output.UserRepository,
	runRepo output.RunRepository,
	participationRepo output.ParticipationRepository,
	publisher output.Publisher,
	clock output.Clock,
	translator output.T,
	logger zerolog.Logger,
) *FinishService {
	return &FinishService{
		userRepo:          userRepo,
		runRepo:           runRepo,
		participationRepo: participationRepo,
		publisher:         publisher,
		clock:             clock,
		translator:        translator,
		logger:            logger,
	}
}

// RegisterFinish stamps the scanned user's open participation with the
// current time. The returned message is localized operator feedback, set on
// both success and failure.
func (s *FinishService) RegisterFinish(ctx context.Context, locale, rawValue string) (*entities.Participation, string, error) {
	userID, err := domain.DecodePayload(rawValue)
	if err != nil {
		return nil, s.translator.T(locale, "scan.invalid_code", nil), err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.translator.T(locale, "scan.unknown_participant", nil), err
	}

	now := s.clock.Now()

	participation, run, err := s.resolveOpenParticipation(ctx, user.ID, now)
	if err != nil {
		return nil, s.translator.T(locale, "scan.no_active_participation", map[string]any{"Name": user.DisplayName()}), err
	}

	if err := validateTiming(run, now); err != nil {
		return nil, s.translator.T(locale, "scan.run_not_started", nil), err
	}

	if err := s.participationRepo.RecordArrival(ctx, participation.ID, now); err != nil {
		if errors.Is(err, domain.ErrAlreadyFinished) {
			return nil, s.translator.T(locale, "scan.already_finished", nil), err
		}
		// Anything else (row gone, database down) is not operator feedback.
		return nil, "", fmt.Errorf("record arrival: %w", err)
	}
	participation.ArrivalTime = now

	totalTime, _ := participation.TotalTime(run.StartDate)
	s.logger.Info().
		Uint("participation_id", participation.ID).
		Uint("run_id", run.ID).
		Uint("user_id", user.ID).
		Int64("total_time", totalTime).
		Msg("arrival recorded")

	s.publisher.ParticipationChanged(ctx, output.ParticipationEvent{
		Topic:           fmt.Sprintf("/participations/%d", participation.ID),
		ParticipationID: participation.ID,
		RunID:           run.ID,
		UserID:          user.ID,
		DisplayName:     user.DisplayName(),
		Status:          participation.Status(),
		ArrivalTime:     participation.ArrivalTime,
		TotalTime:       totalTime,
	})

	msg := s.translator.T(locale, "scan.success", map[string]any{"Name": user.DisplayName()})
	return participation, msg, nil
}

// resolveOpenParticipation picks the participation the scan applies to:
// the one whose run window contains now, with the latest start date when
// runs overlap. Legacy runs with no end date fall back to the most recent
// unfinished participation (run id descending). A run that has not started
// yet is still selected when nothing else is open, so the timing validator
// reports why the scan is rejected instead of a generic "no run" message.
func (s *FinishService) resolveOpenParticipation(ctx context.Context, userID uint, now time.Time) (*entities.Participation, *entities.Run, error) {
	participations, err := s.participationRepo.FindUnfinishedByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("find unfinished participations: %w", err)
	}
	if len(participations) == 0 {
		return nil, nil, domain.ErrNoActiveParticipation
	}

	runs := make(map[uint]*entities.Run, len(participations))
	for i := range participations {
		runID := participations[i].RunID
		if _, ok := runs[runID]; ok {
			continue
		}
		run, err := s.runRepo.FindByID(ctx, runID)
		if err != nil {
			return nil, nil, fmt.Errorf("find run %d: %w", runID, err)
		}
		runs[runID] = run
	}

	// Primary: the run whose window contains now; latest start wins on
	// overlapping runs.
	var current *entities.Participation
	for i := range participations {
		run := runs[participations[i].RunID]
		if !run.IsCurrent(now) {
			continue
		}
		if current == nil || run.StartDate.After(runs[current.RunID].StartDate) {
			current = &participations[i]
		}
	}
	if current != nil {
		return current, runs[current.RunID], nil
	}

	// Fallback: rows without an end date, in run id descending order.
	for i := range participations {
		run := runs[participations[i].RunID]
		if !run.HasEndDate() {
			return &participations[i], run, nil
		}
	}

	// Everything left has either ended or not started; surface the soonest
	// upcoming run so the validator can reject it with the right reason.
	var upcoming *entities.Participation
	for i := range participations {
		run := runs[participations[i].RunID]
		if !now.Before(run.StartDate) {
			continue
		}
		if upcoming == nil || run.StartDate.Before(runs[upcoming.RunID].StartDate) {
			upcoming = &participations[i]
		}
	}
	if upcoming != nil {
		return upcoming, runs[upcoming.RunID], nil
	}

	return nil, nil, domain.ErrNoActiveParticipation
}

// validateTiming enforces the run timing window: a scan before the start is
// rejected, finishing after the end is allowed once the run has started.
func validateTiming(run *entities.Run, now time.Time) error {
	if now.Before(run.StartDate) {
		return domain.ErrRunNotStarted
	}
	return nil
}
