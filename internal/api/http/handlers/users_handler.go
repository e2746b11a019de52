package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/api/dto"
	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/service"
)

// UsersHandler exposes account CRUD endpoints.
type UsersHandler struct {
	users    *service.UserService
	resolver *auth.Resolver
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, resolver *auth.Resolver) *UsersHandler {
	return &UsersHandler{users: userService, resolver: resolver}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermUserViewAll); err != nil {
		return err
	}

	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUsers(users)})
}

// Get handles GET /api/users/:id, including the account's shifts.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermUserViewAll); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, shifts, err := h.users.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":   dto.FromUser(user),
		"shifts": dto.FromShifts(shifts),
	}})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermUserCreate); err != nil {
		return err
	}

	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "Name, email, and password are required")
	}

	user, err := h.users.Create(c.Context(), identity, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromUser(user)})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermUserUpdate); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Update(c.Context(), id, service.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUser(user)})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermUserDelete); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Context(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "User deleted successfully"}})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
