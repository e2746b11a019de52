package events

import (
	"time"

	"github.com/spec-kit/shift-scheduler/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShiftCreated  EventType = "shift_created"
	EventShiftUpdated  EventType = "shift_updated"
	EventShiftDeleted  EventType = "shift_deleted"
	EventUserCreated   EventType = "user_created"
	EventUserDeleted   EventType = "user_deleted"
	EventUserLoggedIn  EventType = "user_logged_in"
	EventUserLoggedOut EventType = "user_logged_out"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ShiftPayload describes the shift an event refers to.
type ShiftPayload struct {
	ShiftID   int64     `json:"shift_id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	UserID    int64     `json:"user_id"`
}

// UserPayload describes the account an event refers to.
type UserPayload struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}
