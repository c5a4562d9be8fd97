package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

type UserService struct {
	userRepo          output.UserRepository
	runRepo           output.RunRepository
	participationRepo output.ParticipationRepository
}

func NewUserService(
	userRepo output.UserRepository,
	runRepo output.RunRepository,
	participationRepo output.ParticipationRepository,
) *UserService {
	return &UserService{
		userRepo:          userRepo,
		runRepo:           runRepo,
		participationRepo: participationRepo,
	}
}

// CreateUser persists the user, hashing plainPassword when one is supplied.
// Enrollment in existing runs is an explicit step requested by the caller,
// not a side effect of user creation.
func (s *UserService) CreateUser(ctx context.Context, user *entities.User, plainPassword string, enrollInRuns bool) error {
	if plainPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}
	if enrollInRuns {
		if _, err := s.EnrollInAllRuns(ctx, user.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetUsers(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, user *entities.User) error {
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

// Authenticate verifies the email/password pair and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// EnrollInAllRuns creates one participation per existing run for the user,
// skipping runs the user is already enrolled in. Returns the number of
// participations created.
func (s *UserService) EnrollInAllRuns(ctx context.Context, userID uint) (int, error) {
	runs, err := s.runRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list runs: %w", err)
	}
	created := 0
	for i := range runs {
		participation := &entities.Participation{RunID: runs[i].ID, UserID: userID}
		if err := s.participationRepo.Create(ctx, participation); err != nil {
			if errors.Is(err, domain.ErrParticipationExists) {
				continue
			}
			return created, fmt.Errorf("enroll in run %d: %w", runs[i].ID, err)
		}
		created++
	}
	return created, nil
}

// GetResults recomputes the public results board: per user, the number of
// finished participations, the covered distance and the cumulated time.
func (s *UserService) GetResults(ctx context.Context) ([]entities.UserResult, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	runs, err := s.runRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runStarts := make(map[uint]entities.Run, len(runs))
	for i := range runs {
		runStarts[runs[i].ID] = runs[i]
	}

	results := make([]entities.UserResult, 0, len(users))
	for i := range users {
		participations, err := s.participationRepo.FindByUserID(ctx, users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list participations for user %d: %w", users[i].ID, err)
		}
		result := entities.UserResult{User: users[i]}
		for j := range participations {
			run, ok := runStarts[participations[j].RunID]
			if !ok {
				continue
			}
			if seconds, finished := participations[j].TotalTime(run.StartDate); finished {
				result.FinishedParticipationsCount++
				result.TotalSeconds += seconds
			}
		}
		results = append(results, result)
	}
	return results, nil
}
