package input

import (
	"context"

	"runtrack/internal/domain/entities"
)

type RunUseCase interface {
	CreateRun(ctx context.Context, run *entities.Run) error
	GetRunByID(ctx context.Context, id uint) (*entities.Run, error)
	GetRuns(ctx context.Context) ([]entities.Run, error)
	UpdateRun(ctx context.Context, run *entities.Run) error
	DeleteRun(ctx context.Context, id uint) error
}
