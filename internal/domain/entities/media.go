package entities

import "time"

// Media is an uploaded image associated with a user (profile photo).
type Media struct {
	ID           uint
	UserID       uint
	Filename     string // name on disk, uuid-based
	OriginalName string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
