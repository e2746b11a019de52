package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shift-scheduler/internal/domain"
)

func newGuardApp(t *testing.T, store *fakeIdentityStore) (*fiber.App, *TokenManager) {
	t.Helper()

	tm := NewTokenManager(testSecret, 168*time.Hour)
	guard := NewGuard(NewResolver(tm, store))

	app := fiber.New()
	app.Get("/login", guard.GuestOnly(), func(c *fiber.Ctx) error {
		return c.SendString("login page")
	})
	app.Get("/admin", guard.RequireAuthenticated(), guard.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("admin home")
	})
	app.Get("/employee", guard.RequireAuthenticated(), guard.RequireRole(domain.RoleEmployee), func(c *fiber.Ctx) error {
		return c.SendString("employee home")
	})
	return app, tm
}

func request(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func seededStore() *fakeIdentityStore {
	return &fakeIdentityStore{identities: map[int64]*domain.Identity{
		1: {ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
		2: {ID: 2, Name: "Employee", Email: "employee@example.com", Role: domain.RoleEmployee},
	}}
}

func TestRequireAuthenticatedRedirectsGuests(t *testing.T) {
	app, _ := newGuardApp(t, seededStore())

	resp := request(t, app, "/admin", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginRoute, resp.Header.Get("Location"))
}

func TestRequireAuthenticatedRedirectsOnInvalidToken(t *testing.T) {
	app, _ := newGuardApp(t, seededStore())

	resp := request(t, app, "/admin", "garbage")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginRoute, resp.Header.Get("Location"))
}

func TestRequireAuthenticatedPassesValidIdentity(t *testing.T) {
	app, tm := newGuardApp(t, seededStore())
	token, _, err := tm.Generate(1, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	resp := request(t, app, "/admin", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleRedirectsWrongRole(t *testing.T) {
	app, tm := newGuardApp(t, seededStore())
	token, _, err := tm.Generate(2, "employee@example.com", domain.RoleEmployee)
	require.NoError(t, err)

	resp := request(t, app, "/admin", token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/employee", resp.Header.Get("Location"))
}

func TestGuestOnlyPassesAnonymousVisitor(t *testing.T) {
	app, _ := newGuardApp(t, seededStore())

	resp := request(t, app, "/login", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuestOnlyDowngradesInvalidToken(t *testing.T) {
	// an expired or garbage token on a public page is not an error
	app, _ := newGuardApp(t, seededStore())

	resp := request(t, app, "/login", "garbage")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuestOnlyRedirectsAuthenticatedByRole(t *testing.T) {
	app, tm := newGuardApp(t, seededStore())

	adminToken, _, err := tm.Generate(1, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	resp := request(t, app, "/login", adminToken)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	employeeToken, _, err := tm.Generate(2, "employee@example.com", domain.RoleEmployee)
	require.NoError(t, err)
	resp = request(t, app, "/login", employeeToken)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/employee", resp.Header.Get("Location"))
}

func TestGuestOnlyAvoidsRedirectLoop(t *testing.T) {
	store := seededStore()
	tm := NewTokenManager(testSecret, 168*time.Hour)
	guard := NewGuard(NewResolver(tm, store))

	// home route itself carries the guard; an authenticated employee
	// requesting it must not be redirected to itself
	app := fiber.New()
	app.Get("/employee", guard.GuestOnly(), func(c *fiber.Ctx) error {
		return c.SendString("employee home")
	})

	token, _, err := tm.Generate(2, "employee@example.com", domain.RoleEmployee)
	require.NoError(t, err)

	resp := request(t, app, "/employee", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleWithoutResolutionFailsFatally(t *testing.T) {
	guard := NewGuard(NewResolver(NewTokenManager(testSecret, time.Hour), seededStore()))

	app := fiber.New()
	// deliberately miswired: RequireRole without RequireAuthenticated
	app.Get("/broken", guard.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("unreachable")
	})

	resp := request(t, app, "/broken", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRoleHomeRoute(t *testing.T) {
	assert.Equal(t, "/admin", RoleHomeRoute(domain.RoleAdmin))
	assert.Equal(t, "/employee", RoleHomeRoute(domain.RoleEmployee))
	assert.Equal(t, "/employee", RoleHomeRoute(domain.Role("contractor")))
}
