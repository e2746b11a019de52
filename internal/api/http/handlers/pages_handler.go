package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/auth"
)

// PagesHandler serves the guarded entry routes. The real UI lives in a
// separate frontend; these endpoints exist so the route guards have pages to
// protect and redirect between.
type PagesHandler struct{}

// NewPagesHandler constructs handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Login handles GET /login (guest entry point).
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "login"})
}

// AdminHome handles GET /admin.
func (h *PagesHandler) AdminHome(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	return c.JSON(fiber.Map{"page": "admin", "user": identity})
}

// EmployeeHome handles GET /employee.
func (h *PagesHandler) EmployeeHome(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	return c.JSON(fiber.Map{"page": "employee", "user": identity})
}
