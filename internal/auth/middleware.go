package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/domain"
)

// LoginRoute is the entry point unauthenticated page requests are sent to.
const LoginRoute = "/login"

// Guard provides composable pre-handler checks for page routes.
type Guard struct {
	resolver *Resolver
}

// NewGuard constructs route guards around the resolver.
func NewGuard(resolver *Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// RequireAuthenticated resolves the caller's identity, redirecting to the
// login page when resolution fails. The identity is cached in Locals for
// downstream guards and the handler.
func (g *Guard) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); ok {
			return c.Next()
		}
		if _, err := g.resolver.Resolve(c); err != nil {
			return c.Redirect(LoginRoute, fiber.StatusFound)
		}
		return c.Next()
	}
}

// GuestOnly lets unauthenticated visitors through and sends authenticated
// ones to their role's home route. A token that fails resolution is treated
// as "not authenticated", not as an error: an expired cookie on a public
// page is normal.
func (g *Guard) GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := AuthToken(c); !ok {
			return c.Next()
		}

		identity := g.resolver.TryResolve(c)
		if identity == nil {
			return c.Next()
		}

		home := RoleHomeRoute(identity.Role)
		if c.Path() == home {
			return c.Next()
		}
		return c.Redirect(home, fiber.StatusFound)
	}
}

// RequireRole redirects callers of the wrong role to their own home route.
// It assumes RequireAuthenticated already ran; a missing identity here is a
// wiring bug, not a user error.
func (g *Guard) RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusInternalServerError, "identity not resolved before role check")
		}
		if identity.Role != required {
			return c.Redirect(RoleHomeRoute(identity.Role), fiber.StatusFound)
		}
		return c.Next()
	}
}

// RoleHomeRoute maps a role to its landing page. The fallback covers any
// value outside the closed role set; it must not panic.
func RoleHomeRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleEmployee:
		return "/employee"
	default:
		return "/employee"
	}
}
