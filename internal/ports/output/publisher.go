package output

import (
	"context"
	"time"
)

// ParticipationEvent notifies subscribers (live displays) that a
// participation changed. Topic follows the entity URI convention.
type ParticipationEvent struct {
	Topic           string    `json:"topic"`
	ParticipationID uint      `json:"participationId"`
	RunID           uint      `json:"runId"`
	UserID          uint      `json:"userId"`
	DisplayName     string    `json:"displayName"`
	Status          string    `json:"status"`
	ArrivalTime     time.Time `json:"arrivalTime"`
	TotalTime       int64     `json:"totalTime"`
}

// Publisher delivers participation change events. Fire-and-forget,
// at-least-once; a missed notification is recovered by display polling.
type Publisher interface {
	ParticipationChanged(ctx context.Context, event ParticipationEvent)
}
