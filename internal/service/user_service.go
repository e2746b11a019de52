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

// UserService coordinates account management.
type UserService struct {
	users      repository.UserRepository
	shifts     repository.ShiftRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, shifts repository.ShiftRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, shifts: shifts, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// UserUpdate carries optional field changes; nil means "leave unchanged".
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns a single account with its shifts.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, []*domain.Shift, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	shifts, err := s.shifts.ListByUser(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, shifts, nil
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, actor *domain.Identity, name, email, password, roleRaw string) (*domain.User, error) {
	if roleRaw == "" {
		roleRaw = string(domain.RoleEmployee)
	}
	role, err := domain.ParseRole(roleRaw)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid role. Must be one of: admin, employee", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserCreated, actor, events.UserPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	return user, nil
}

// Update applies partial changes to an account.
func (s *UserService) Update(ctx context.Context, id int64, update UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		role, err := domain.ParseRole(*update.Role)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid role. Must be one of: admin, employee", nil)
		}
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account; its shifts cascade at the database level.
func (s *UserService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserDeleted, actor, events.UserPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, actor *domain.Identity, payload interface{}) {
	if s.dispatcher == nil || actor == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
