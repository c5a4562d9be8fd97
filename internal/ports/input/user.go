package input

import (
	"context"

	"runtrack/internal/domain/entities"
)

type UserUseCase interface {
	// CreateUser persists the user, hashing plainPassword when non-empty.
	// enrollInRuns additionally creates one participation per existing run.
	CreateUser(ctx context.Context, user *entities.User, plainPassword string, enrollInRuns bool) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUsers(ctx context.Context) ([]entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint) error
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)
	EnrollInAllRuns(ctx context.Context, userID uint) (int, error)
	GetResults(ctx context.Context) ([]entities.UserResult, error)
}
