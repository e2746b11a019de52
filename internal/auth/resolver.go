package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-scheduler/internal/domain"
	apperrors "github.com/spec-kit/shift-scheduler/pkg/util"
)

const identityKey = "auth_identity"

// IdentityStore is the narrow persistence contract the resolver needs: a
// fresh projection of the user row behind a token's subject.
type IdentityStore interface {
	FindIdentityByID(ctx context.Context, id int64) (*domain.Identity, error)
}

// Resolver turns a transport-level token into a verified identity.
type Resolver struct {
	tokens *TokenManager
	users  IdentityStore
}

// NewResolver constructs a resolver.
func NewResolver(tokens *TokenManager, users IdentityStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve reads the cookie, validates the token, and re-fetches the user
// record. The re-fetch is deliberate: the token's embedded role is never the
// final authority, so a deleted or demoted account is rejected on its next
// request even though the token itself verifies until expiry.
func (r *Resolver) Resolve(c *fiber.Ctx) (*domain.Identity, error) {
	token, ok := AuthToken(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Authentication required")
	}

	claims, err := r.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid or expired token")
	}

	identity, err := r.users.FindIdentityByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("User not found")
		}
		return nil, apperrors.MapError(err)
	}

	c.Locals(identityKey, identity)
	return identity, nil
}

// TryResolve returns the identity or nil, never an error. For call sites
// where an anonymous caller is not an error condition.
func (r *Resolver) TryResolve(c *fiber.Ctx) *domain.Identity {
	identity, err := r.Resolve(c)
	if err != nil {
		return nil
	}
	return identity
}

// IdentityFromContext retrieves the identity cached for this request.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
