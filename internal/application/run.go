package application

import (
	"context"
	"fmt"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

type RunService struct {
	runRepo output.RunRepository
	clock   output.Clock
}

func NewRunService(runRepo output.RunRepository, clock output.Clock) *RunService {
	return &RunService{runRepo: runRepo, clock: clock}
}

// CreateRun validates the window (start before end, neither in the past) and
// persists the run. The in-the-past rule is enforced at creation only.
func (s *RunService) CreateRun(ctx context.Context, run *entities.Run) error {
	if err := s.validateDates(run); err != nil {
		return err
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *RunService) GetRunByID(ctx context.Context, id uint) (*entities.Run, error) {
	return s.runRepo.FindByID(ctx, id)
}

func (s *RunService) GetRuns(ctx context.Context) ([]entities.Run, error) {
	return s.runRepo.FindAll(ctx)
}

func (s *RunService) UpdateRun(ctx context.Context, run *entities.Run) error {
	if run.HasEndDate() && !run.StartDate.Before(run.EndDate) {
		return domain.ErrInvalidRunDates
	}
	if err := s.runRepo.Update(ctx, run); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

func (s *RunService) DeleteRun(ctx context.Context, id uint) error {
	return s.runRepo.Delete(ctx, id)
}

func (s *RunService) validateDates(run *entities.Run) error {
	if run.StartDate.IsZero() || !run.HasEndDate() {
		return domain.ErrInvalidRunDates
	}
	if !run.StartDate.Before(run.EndDate) {
		return domain.ErrInvalidRunDates
	}
	now := s.clock.Now()
	if run.StartDate.Before(now) || run.EndDate.Before(now) {
		return domain.ErrRunDatesInPast
	}
	return nil
}
