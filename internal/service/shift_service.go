package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/domain"
	"github.com/spec-kit/shift-scheduler/internal/events"
	"github.com/spec-kit/shift-scheduler/internal/repository"
	apperrors "github.com/spec-kit/shift-scheduler/pkg/util"
)

// ShiftService coordinates shift management.
type ShiftService struct {
	shifts     repository.ShiftRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewShiftService builds the service.
func NewShiftService(shifts repository.ShiftRepository, users repository.UserRepository, dispatcher events.Dispatcher) *ShiftService {
	return &ShiftService{shifts: shifts, users: users, dispatcher: dispatcher}
}

// ShiftUpdate carries optional field changes; nil means "leave unchanged".
type ShiftUpdate struct {
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
	UserID    *int64
}

// List returns shifts visible to the viewer, ordered by start time. Callers
// holding the view-all permission see everything; view-own holders see only
// their records. Date bounds apply on top of the visibility scope.
func (s *ShiftService) List(ctx context.Context, viewer *domain.Identity, from, to time.Time) ([]*domain.Shift, error) {
	filter := repository.ShiftFilter{From: from, To: to}
	if !auth.HasPermission(viewer, auth.PermShiftViewAll) {
		if !auth.HasPermission(viewer, auth.PermShiftViewOwn) {
			return nil, apperrors.NewForbidden("Insufficient permissions")
		}
		filter.UserID = viewer.ID
	}

	shifts, err := s.shifts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return shifts, nil
}

// Get returns a single shift if the viewer may see it.
func (s *ShiftService) Get(ctx context.Context, viewer *domain.Identity, id int64) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanViewShift(viewer, shift.UserID) {
		return nil, apperrors.NewForbidden("Insufficient permissions")
	}
	return shift, nil
}

// Create schedules a new shift for the given owner.
func (s *ShiftService) Create(ctx context.Context, actor *domain.Identity, name string, startTime, endTime time.Time, userID int64) (*domain.Shift, error) {
	if !endTime.After(startTime) {
		return nil, apperrors.NewValidationError("endTime must be after startTime", nil)
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("assigned user does not exist", nil)
		}
		return nil, apperrors.MapError(err)
	}

	shift := &domain.Shift{
		Name:      name,
		StartTime: startTime,
		EndTime:   endTime,
		UserID:    owner.ID,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, apperrors.MapError(err)
	}
	shift.User = owner.Summary()

	s.publish(ctx, events.EventShiftCreated, actor, shift)
	return shift, nil
}

// Update applies partial changes to a shift.
func (s *ShiftService) Update(ctx context.Context, actor *domain.Identity, id int64, update ShiftUpdate) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if update.Name != nil {
		shift.Name = *update.Name
	}
	if update.StartTime != nil {
		shift.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		shift.EndTime = *update.EndTime
	}
	if update.UserID != nil {
		owner, err := s.users.GetByID(ctx, *update.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assigned user does not exist", nil)
			}
			return nil, apperrors.MapError(err)
		}
		shift.UserID = owner.ID
		shift.User = owner.Summary()
	}

	if !shift.EndTime.After(shift.StartTime) {
		return nil, apperrors.NewValidationError("endTime must be after startTime", nil)
	}

	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventShiftUpdated, actor, shift)
	return shift, nil
}

// Delete removes a shift.
func (s *ShiftService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("shift", nil)
		}
		return apperrors.MapError(err)
	}

	if err := s.shifts.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventShiftDeleted, actor, shift)
	return nil
}

func (s *ShiftService) publish(ctx context.Context, eventType events.EventType, actor *domain.Identity, shift *domain.Shift) {
	if s.dispatcher == nil || actor == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.ShiftPayload{
			ShiftID:   shift.ID,
			Name:      shift.Name,
			StartTime: shift.StartTime,
			EndTime:   shift.EndTime,
			UserID:    shift.UserID,
		},
	})
}
