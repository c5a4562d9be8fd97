package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

// In-memory fakes for the output ports, shared by the service tests.

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]entities.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if user.Email != "" && u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uint) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindAll(_ context.Context) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memRunRepo struct {
	mu     sync.Mutex
	nextID uint
	runs   map[uint]entities.Run
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: make(map[uint]entities.Run)}
}

func (r *memRunRepo) Create(_ context.Context, run *entities.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	run.ID = r.nextID
	r.runs[run.ID] = *run
	return nil
}

func (r *memRunRepo) FindByID(_ context.Context, id uint) (*entities.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (r *memRunRepo) FindAll(_ context.Context) ([]entities.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *memRunRepo) Update(_ context.Context, run *entities.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return domain.ErrRunNotFound
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *memRunRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, id)
	return nil
}

type memParticipationRepo struct {
	mu             sync.Mutex
	nextID         uint
	participations map[uint]entities.Participation
}

func newMemParticipationRepo() *memParticipationRepo {
	return &memParticipationRepo{participations: make(map[uint]entities.Participation)}
}

func (r *memParticipationRepo) Create(_ context.Context, p *entities.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participations {
		if existing.UserID == p.UserID && existing.RunID == p.RunID {
			return domain.ErrParticipationExists
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.participations[p.ID] = *p
	return nil
}

func (r *memParticipationRepo) FindByID(_ context.Context, id uint) (*entities.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participations[id]
	if !ok {
		return nil, domain.ErrParticipationNotFound
	}
	return &p, nil
}

func (r *memParticipationRepo) FindByRunID(_ context.Context, runID uint) ([]entities.Participation, error) {
	return r.filter(func(p entities.Participation) bool { return p.RunID == runID }), nil
}

func (r *memParticipationRepo) FindByUserID(_ context.Context, userID uint) ([]entities.Participation, error) {
	return r.filter(func(p entities.Participation) bool { return p.UserID == userID }), nil
}

func (r *memParticipationRepo) FindUnfinishedByUserID(_ context.Context, userID uint) ([]entities.Participation, error) {
	return r.filter(func(p entities.Participation) bool {
		return p.UserID == userID && p.ArrivalTime.IsZero()
	}), nil
}

// RecordArrival mimics the database's atomic set-if-null.
func (r *memParticipationRepo) RecordArrival(_ context.Context, id uint, arrivalTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participations[id]
	if !ok {
		return domain.ErrParticipationNotFound
	}
	if !p.ArrivalTime.IsZero() {
		return domain.ErrAlreadyFinished
	}
	p.ArrivalTime = arrivalTime
	r.participations[id] = p
	return nil
}

func (r *memParticipationRepo) OverrideArrival(_ context.Context, id uint, arrivalTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participations[id]
	if !ok {
		return domain.ErrParticipationNotFound
	}
	p.ArrivalTime = arrivalTime
	r.participations[id] = p
	return nil
}

func (r *memParticipationRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participations, id)
	return nil
}

// filter returns matches ordered by run id descending, like the SQL queries.
func (r *memParticipationRepo) filter(keep func(entities.Participation) bool) []entities.Participation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Participation
	for _, p := range r.participations {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunID > out[j].RunID })
	return out
}

type memPublisher struct {
	mu     sync.Mutex
	events []output.ParticipationEvent
}

func (p *memPublisher) ParticipationChanged(_ context.Context, event output.ParticipationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *memPublisher) Events() []output.ParticipationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]output.ParticipationEvent(nil), p.events...)
}

// keyTranslator returns the message key, so tests assert on keys instead of
// localized strings.
type keyTranslator struct{}

func (keyTranslator) T(_ string, key string, _ map[string]any) string { return key }
