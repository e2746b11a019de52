package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shift-scheduler/internal/domain"
)

// ShiftFilter narrows shift listings. Zero values mean "no constraint".
type ShiftFilter struct {
	UserID int64
	From   time.Time
	To     time.Time
}

// ShiftRepository defines persistence access for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) error
	Update(ctx context.Context, shift *domain.Shift) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	List(ctx context.Context, filter ShiftFilter) ([]*domain.Shift, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Shift, error)
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository returns a Postgres-backed implementation.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

const shiftColumns = `
        s.id, s.name, s.start_time, s.end_time, s.user_id, s.created_at, s.updated_at,
        u.id, u.name, u.email, u.role`

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var shift domain.Shift
	var owner domain.UserSummary
	if err := row.Scan(
		&shift.ID,
		&shift.Name,
		&shift.StartTime,
		&shift.EndTime,
		&shift.UserID,
		&shift.CreatedAt,
		&shift.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&owner.Role,
	); err != nil {
		return nil, err
	}
	shift.User = &owner
	return &shift, nil
}

func (r *shiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	const query = `
        INSERT INTO shifts (name, start_time, end_time, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		shift.Name,
		shift.StartTime,
		shift.EndTime,
		shift.UserID,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
}

func (r *shiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	const query = `
        UPDATE shifts SET name=$1, start_time=$2, end_time=$3, user_id=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		shift.Name,
		shift.StartTime,
		shift.EndTime,
		shift.UserID,
		shift.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM shifts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	const query = `
        SELECT` + shiftColumns + `
        FROM shifts s JOIN users u ON u.id = s.user_id
        WHERE s.id=$1`

	return scanShift(r.pool.QueryRow(ctx, query, id))
}

func (r *shiftRepository) List(ctx context.Context, filter ShiftFilter) ([]*domain.Shift, error) {
	query := `
        SELECT` + shiftColumns + `
        FROM shifts s JOIN users u ON u.id = s.user_id
        WHERE 1=1`

	args := []any{}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` AND s.user_id=$` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND s.start_time >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND s.start_time <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY s.start_time ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (r *shiftRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Shift, error) {
	return r.List(ctx, ShiftFilter{UserID: userID})
}
