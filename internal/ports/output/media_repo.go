package output

import (
	"context"

	"runtrack/internal/domain/entities"
)

type MediaRepository interface {
	Create(ctx context.Context, media *entities.Media) error
	FindByID(ctx context.Context, id uint) (*entities.Media, error)
	FindByUserID(ctx context.Context, userID uint) (*entities.Media, error)
	Delete(ctx context.Context, id uint) error
}
