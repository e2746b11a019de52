package dto

import (
	"time"

	"github.com/spec-kit/shift-scheduler/internal/domain"
)

// ShiftCreateRequest payload for scheduling a shift.
type ShiftCreateRequest struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	UserID    int64     `json:"userId"`
}

// ShiftUpdateRequest payload for partial shift updates.
type ShiftUpdateRequest struct {
	Name      *string    `json:"name"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	UserID    *int64     `json:"userId"`
}

// ShiftResponse is the shift projection including its owner.
type ShiftResponse struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	StartTime time.Time           `json:"startTime"`
	EndTime   time.Time           `json:"endTime"`
	UserID    int64               `json:"userId"`
	User      *domain.UserSummary `json:"user,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// FromShift converts a domain shift.
func FromShift(shift *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        shift.ID,
		Name:      shift.Name,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		UserID:    shift.UserID,
		User:      shift.User,
		CreatedAt: shift.CreatedAt,
		UpdatedAt: shift.UpdatedAt,
	}
}

// FromShifts converts a list of domain shifts.
func FromShifts(shifts []*domain.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, FromShift(shift))
	}
	return out
}
