package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/shift-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/config"
	"github.com/spec-kit/shift-scheduler/internal/domain"
	"github.com/spec-kit/shift-scheduler/internal/observability"
	"github.com/spec-kit/shift-scheduler/internal/repository"
	"github.com/spec-kit/shift-scheduler/internal/service"
)

type memUserRepo struct {
	users map[int64]*domain.User
	next  int64
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.next++
	user.ID = m.next
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) FindIdentityByID(_ context.Context, id int64) (*domain.Identity, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

type memShiftRepo struct {
	shifts map[int64]*domain.Shift
	next   int64
}

func (m *memShiftRepo) Create(_ context.Context, shift *domain.Shift) error {
	m.next++
	shift.ID = m.next
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt
	m.shifts[shift.ID] = shift
	return nil
}

func (m *memShiftRepo) Update(_ context.Context, shift *domain.Shift) error {
	if _, ok := m.shifts[shift.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.shifts[shift.ID] = shift
	return nil
}

func (m *memShiftRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.shifts, id)
	return nil
}

func (m *memShiftRepo) GetByID(_ context.Context, id int64) (*domain.Shift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return shift, nil
}

func (m *memShiftRepo) List(_ context.Context, filter repository.ShiftFilter) ([]*domain.Shift, error) {
	out := make([]*domain.Shift, 0, len(m.shifts))
	for _, shift := range m.shifts {
		if filter.UserID != 0 && shift.UserID != filter.UserID {
			continue
		}
		if !filter.From.IsZero() && shift.StartTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && shift.StartTime.After(filter.To) {
			continue
		}
		out = append(out, shift)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memShiftRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Shift, error) {
	return m.List(ctx, repository.ShiftFilter{UserID: userID})
}

type testEnv struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	admin    *domain.User
	employee *domain.User
	shift    *domain.Shift
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	adminHash, err := auth.HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	employeeHash, err := auth.HashPassword("employee123", bcrypt.MinCost)
	require.NoError(t, err)

	admin := &domain.User{ID: 1, Name: "Admin User", Email: "admin@example.com", PasswordHash: adminHash, Role: domain.RoleAdmin}
	employee := &domain.User{ID: 2, Name: "Employee User", Email: "employee@example.com", PasswordHash: employeeHash, Role: domain.RoleEmployee}

	userRepo := &memUserRepo{users: map[int64]*domain.User{1: admin, 2: employee}, next: 2}

	shift := &domain.Shift{
		ID:        1,
		Name:      "Morning Shift",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(32 * time.Hour),
		UserID:    employee.ID,
		User:      employee.Summary(),
	}
	otherShift := &domain.Shift{
		ID:        2,
		Name:      "Admin Cover",
		StartTime: time.Now().Add(48 * time.Hour),
		EndTime:   time.Now().Add(56 * time.Hour),
		UserID:    admin.ID,
		User:      admin.Summary(),
	}
	shiftRepo := &memShiftRepo{shifts: map[int64]*domain.Shift{1: shift, 2: otherShift}, next: 2}

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 168,
			BcryptCost:    bcrypt.MinCost,
		},
	}

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: userRepo})
	userService := service.NewUserService(userRepo, shiftRepo, nil, bcrypt.MinCost)
	shiftService := service.NewShiftService(shiftRepo, userRepo, nil)

	resolver := auth.NewResolver(authService.TokenManager(), userRepo)
	guard := auth.NewGuard(resolver)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("shift-scheduler", "test", nil, nil),
		Auth:   handlers.NewAuthHandler(authService, resolver, false),
		Users:  handlers.NewUsersHandler(userService, resolver),
		Shifts: handlers.NewShiftsHandler(shiftService, resolver),
		Pages:  handlers.NewPagesHandler(),
		Guard:  guard,
	})

	return &testEnv{
		app:      app,
		tokens:   authService.TokenManager(),
		admin:    admin,
		employee: employee,
		shift:    shift,
	}
}

func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := e.tokens.Generate(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func authCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "employee@example.com",
		"password": "employee123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := authCookie(resp)
	require.NotNil(t, cookie)

	claims, err := env.tokens.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, env.employee.ID, claims.UserID)
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "employee@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, authCookie(resp))
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "employee@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMeRejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.employee)

	resp := env.do(t, http.MethodDelete, "/api/users/2", env.tokenFor(t, env.admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestShiftDeleteByRole(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodDelete, "/api/shifts/1", env.tokenFor(t, env.employee), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	resp = env.do(t, http.MethodDelete, "/api/shifts/1", env.tokenFor(t, env.admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShiftListScopedToViewer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/shifts", env.tokenFor(t, env.employee), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			UserID int64 `json:"userId"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, env.employee.ID, body.Data[0].UserID)

	resp = env.do(t, http.MethodGet, "/api/shifts", env.tokenFor(t, env.admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body.Data = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 2)
}

func TestShiftGetOwnershipPolicy(t *testing.T) {
	env := newTestEnv(t)

	// shift 2 belongs to the admin; the employee may not view it
	resp := env.do(t, http.MethodGet, "/api/shifts/2", env.tokenFor(t, env.employee), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/shifts/1", env.tokenFor(t, env.employee), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsersListRequiresPermission(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/users", env.tokenFor(t, env.employee), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users", env.tokenFor(t, env.admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsersRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestCreateUserValidatesRole(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/users", env.tokenFor(t, env.admin), fiber.Map{
		"name":     "New Hire",
		"email":    "hire@example.com",
		"password": "hire1234",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/users", env.tokenFor(t, env.admin), fiber.Map{
		"name":     "New Hire",
		"email":    "hire@example.com",
		"password": "hire1234",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/logout", env.tokenFor(t, env.employee), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := authCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}
