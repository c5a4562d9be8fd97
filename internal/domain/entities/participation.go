package entities

import (
	"time"

	"runtrack/internal/domain"
)

// Participation is a user's enrollment in one run, unique per (user, run).
type Participation struct {
	ID          uint
	RunID       uint
	UserID      uint
	ArrivalTime time.Time // zero = not arrived yet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Participation) IsFinished() bool {
	return !p.ArrivalTime.IsZero()
}

// Status is derived from ArrivalTime and never stored.
func (p *Participation) Status() string {
	if p.IsFinished() {
		return domain.StatusFinished
	}
	return domain.StatusInProgress
}

// TotalTime returns the elapsed seconds between the run start and the
// arrival. ok is false while the participation is in progress.
func (p *Participation) TotalTime(runStart time.Time) (seconds int64, ok bool) {
	if !p.IsFinished() {
		return 0, false
	}
	return int64(p.ArrivalTime.Sub(runStart) / time.Second), true
}
