package domain

import "time"

// Shift is a scheduled block of work assigned to a single user.
type Shift struct {
	ID        int64
	Name      string
	StartTime time.Time
	EndTime   time.Time
	UserID    int64
	User      *UserSummary
	CreatedAt time.Time
	UpdatedAt time.Time
}
