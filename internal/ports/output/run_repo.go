package output

import (
	"context"

	"runtrack/internal/domain/entities"
)

type RunRepository interface {
	Create(ctx context.Context, run *entities.Run) error
	FindByID(ctx context.Context, id uint) (*entities.Run, error)
	FindAll(ctx context.Context) ([]entities.Run, error)
	Update(ctx context.Context, run *entities.Run) error
	Delete(ctx context.Context, id uint) error
}
