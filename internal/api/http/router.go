package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Shifts *handlers.ShiftsHandler
	Pages  *handlers.PagesHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Page entry points guarded per role.
	app.Get("/login", cfg.Guard.GuestOnly(), cfg.Pages.Login)
	app.Get("/admin", cfg.Guard.RequireAuthenticated(), cfg.Guard.RequireRole(domain.RoleAdmin), cfg.Pages.AdminHome)
	app.Get("/employee", cfg.Guard.RequireAuthenticated(), cfg.Guard.RequireRole(domain.RoleEmployee), cfg.Pages.EmployeeHome)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	shifts := api.Group("/shifts")
	shifts.Get("/", cfg.Shifts.List)
	shifts.Post("/", cfg.Shifts.Create)
	shifts.Get("/:id", cfg.Shifts.Get)
	shifts.Put("/:id", cfg.Shifts.Update)
	shifts.Delete("/:id", cfg.Shifts.Delete)
}
