package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-scheduler/internal/api/dto"
	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/service"
)

// ShiftsHandler exposes shift CRUD endpoints.
type ShiftsHandler struct {
	shifts   *service.ShiftService
	resolver *auth.Resolver
}

// NewShiftsHandler constructs handler.
func NewShiftsHandler(shiftService *service.ShiftService, resolver *auth.Resolver) *ShiftsHandler {
	return &ShiftsHandler{shifts: shiftService, resolver: resolver}
}

// List handles GET /api/shifts. Admins see every shift; employees see their
// own. Optional from/to query params bound the start time.
func (h *ShiftsHandler) List(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return err
	}

	shifts, err := h.shifts.List(c.Context(), identity, from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromShifts(shifts)})
}

// Get handles GET /api/shifts/:id.
func (h *ShiftsHandler) Get(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	shift, err := h.shifts.Get(c.Context(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromShift(shift)})
}

// Create handles POST /api/shifts.
func (h *ShiftsHandler) Create(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermShiftCreate); err != nil {
		return err
	}

	var req dto.ShiftCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.StartTime.IsZero() || req.EndTime.IsZero() || req.UserID == 0 {
		return fiber.NewError(http.StatusBadRequest, "Name, startTime, endTime, and userId are required")
	}

	shift, err := h.shifts.Create(c.Context(), identity, req.Name, req.StartTime, req.EndTime, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromShift(shift)})
}

// Update handles PUT /api/shifts/:id.
func (h *ShiftsHandler) Update(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermShiftUpdate); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ShiftUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	shift, err := h.shifts.Update(c.Context(), identity, id, service.ShiftUpdate{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserID:    req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromShift(shift)})
}

// Delete handles DELETE /api/shifts/:id.
func (h *ShiftsHandler) Delete(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil {
		return err
	}
	if err := auth.RequirePermission(identity, auth.PermShiftDelete); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.shifts.Delete(c.Context(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Shift deleted successfully"}})
}

func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(http.StatusBadRequest, key+" must be RFC3339")
	}
	return t, nil
}
