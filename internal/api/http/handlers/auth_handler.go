package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/api/dto"
	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/service"
)

// AuthHandler exposes login, logout, and identity endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	resolver     *auth.Resolver
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, resolver *auth.Resolver, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, resolver: resolver, secureCookie: secureCookie}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password, c.IP())
	if err != nil {
		return err
	}

	auth.SetAuthCookie(c, token, h.auth.TokenManager().TTL(), h.secureCookie)

	return c.JSON(fiber.Map{
		"data": dto.IdentityResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout handles POST /api/auth/logout. It always clears the cookie; the
// token itself stays valid until expiry (stateless design).
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity := h.resolver.TryResolve(c)
	auth.ClearAuthCookie(c)
	h.auth.Logout(c.Context(), identity)

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "Logged out successfully"},
	})
}

// Me handles GET /api/auth/me, returning the freshly resolved identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIdentity(identity)})
}
