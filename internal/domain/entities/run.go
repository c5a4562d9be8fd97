package entities

import "time"

// Run is a scheduled time window [StartDate, EndDate) during which enrolled
// users may finish.
type Run struct {
	ID             uint
	StartDate      time.Time
	EndDate        time.Time // zero = no defined end (legacy rows)
	RunnerID       uint      // optional assigned runner, 0 = none
	Participations []Participation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Run) HasEndDate() bool {
	return !r.EndDate.IsZero()
}

// IsCurrent reports whether now falls inside the run's window. The start
// boundary is inclusive, the end exclusive.
func (r *Run) IsCurrent(now time.Time) bool {
	if now.Before(r.StartDate) {
		return false
	}
	return !r.HasEndDate() || now.Before(r.EndDate)
}

func (r *Run) IsFinished(now time.Time) bool {
	return r.HasEndDate() && !now.Before(r.EndDate)
}

func (r *Run) ParticipantsCount() int {
	return len(r.Participations)
}

func (r *Run) InProgressParticipantsCount() int {
	count := 0
	for i := range r.Participations {
		if !r.Participations[i].IsFinished() {
			count++
		}
	}
	return count
}

func (r *Run) FinishedParticipantsCount() int {
	count := 0
	for i := range r.Participations {
		if r.Participations[i].IsFinished() {
			count++
		}
	}
	return count
}
