package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/config"
	"github.com/spec-kit/shift-scheduler/internal/domain"
	"github.com/spec-kit/shift-scheduler/internal/events"
	"github.com/spec-kit/shift-scheduler/internal/repository"
	apperrors "github.com/spec-kit/shift-scheduler/pkg/util"
)

// AuthService coordinates the login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	throttle   *LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Throttle   *LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Login authenticates by email and password and issues a token. Unknown
// email and wrong password produce the same rejection so the response does
// not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password, remoteIP string) (*domain.User, string, time.Time, error) {
	if s.throttle != nil {
		if !s.throttle.Allow(ctx, email, remoteIP) {
			return nil, "", time.Time{}, apperrors.NewTooManyRequests("Too many login attempts, try again later")
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordFailure(ctx, email, remoteIP)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email, remoteIP)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid email or password")
	}

	token, expiresAt, err := s.tokenMgr.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user, events.UserPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	return user, token, expiresAt, nil
}

// Logout is stateless; the token is removed at the transport layer and stays
// cryptographically valid until its natural expiry. Notification failures
// are logged, never surfaced: local state must end unauthenticated.
func (s *AuthService) Logout(ctx context.Context, identity *domain.Identity) {
	if identity == nil || s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedOut,
		Actor:     events.Actor{UserID: identity.ID, Role: identity.Role},
		Timestamp: time.Now(),
	}); err != nil && s.logger != nil {
		s.logger.Warn("logout notification failed", zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) recordFailure(ctx context.Context, email, remoteIP string) {
	if s.throttle != nil {
		s.throttle.Record(ctx, email, remoteIP)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{UserID: user.ID, Role: user.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
