package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shift-scheduler/internal/domain"
	"github.com/spec-kit/shift-scheduler/internal/repository"
	apperrors "github.com/spec-kit/shift-scheduler/pkg/util"
)

type fakeShiftRepo struct {
	shifts map[int64]*domain.Shift
	next   int64
}

func newFakeShiftRepo(shifts ...*domain.Shift) *fakeShiftRepo {
	repo := &fakeShiftRepo{shifts: make(map[int64]*domain.Shift)}
	for _, shift := range shifts {
		repo.shifts[shift.ID] = shift
		if shift.ID > repo.next {
			repo.next = shift.ID
		}
	}
	return repo
}

func (f *fakeShiftRepo) Create(_ context.Context, shift *domain.Shift) error {
	f.next++
	shift.ID = f.next
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) Update(_ context.Context, shift *domain.Shift) error {
	if _, ok := f.shifts[shift.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id int64) (*domain.Shift, error) {
	shift, ok := f.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return shift, nil
}

func (f *fakeShiftRepo) List(_ context.Context, filter repository.ShiftFilter) ([]*domain.Shift, error) {
	var out []*domain.Shift
	for _, shift := range f.shifts {
		if filter.UserID != 0 && shift.UserID != filter.UserID {
			continue
		}
		out = append(out, shift)
	}
	return out, nil
}

func (f *fakeShiftRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Shift, error) {
	return f.List(ctx, repository.ShiftFilter{UserID: userID})
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{ID: 1, Role: domain.RoleAdmin}
}

func employeeIdentity() *domain.Identity {
	return &domain.Identity{ID: 2, Role: domain.RoleEmployee}
}

func TestShiftCreateRejectsInvertedTimes(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: 2, Email: "employee@example.com", Role: domain.RoleEmployee})
	svc := NewShiftService(newFakeShiftRepo(), users, nil)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), adminIdentity(), "Backwards Shift", start, start.Add(-time.Hour), 2)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestShiftCreateRejectsUnknownOwner(t *testing.T) {
	svc := NewShiftService(newFakeShiftRepo(), newFakeUserRepo(), nil)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), adminIdentity(), "Orphan Shift", start, start.Add(8*time.Hour), 99)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestShiftListScopesEmployeeToOwnRecords(t *testing.T) {
	shifts := newFakeShiftRepo(
		&domain.Shift{ID: 1, UserID: 2},
		&domain.Shift{ID: 2, UserID: 3},
	)
	svc := NewShiftService(shifts, newFakeUserRepo(), nil)

	own, err := svc.List(context.Background(), employeeIdentity(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, int64(2), own[0].UserID)

	all, err := svc.List(context.Background(), adminIdentity(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestShiftGetEnforcesOwnership(t *testing.T) {
	shifts := newFakeShiftRepo(
		&domain.Shift{ID: 1, UserID: 2},
		&domain.Shift{ID: 2, UserID: 3},
	)
	svc := NewShiftService(shifts, newFakeUserRepo(), nil)

	_, err := svc.Get(context.Background(), employeeIdentity(), 1)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), employeeIdentity(), 2)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Get(context.Background(), adminIdentity(), 2)
	require.NoError(t, err)
}
