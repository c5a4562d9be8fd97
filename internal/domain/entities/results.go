package entities

import "runtrack/internal/domain"

// UserResult is the derived results line for one user, recomputed on read.
type UserResult struct {
	User                        User
	FinishedParticipationsCount int
	TotalSeconds                int64
}

// DistanceKm is the displayed distance: finished laps times the fixed lap
// distance.
func (r UserResult) DistanceKm() int {
	return r.FinishedParticipationsCount * domain.DistancePerLapKm
}
