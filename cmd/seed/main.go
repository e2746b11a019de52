package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-scheduler/internal/auth"
	"github.com/spec-kit/shift-scheduler/internal/config"
	"github.com/spec-kit/shift-scheduler/internal/observability"
	"github.com/spec-kit/shift-scheduler/internal/persistence"
)

// Seeds a development database with an admin, an employee, and a few sample
// shifts for the employee. Safe to run repeatedly; users upsert by email.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	adminID, err := upsertUser(ctx, pool, "Admin User", "admin@example.com", "admin123", "admin", cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	logger.Info("seeded admin user", zap.Int64("id", adminID))

	employeeID, err := upsertUser(ctx, pool, "Employee User", "employee@example.com", "employee123", "employee", cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to seed employee", zap.Error(err))
	}
	logger.Info("seeded employee user", zap.Int64("id", employeeID))

	if err := seedShifts(ctx, pool, employeeID); err != nil {
		logger.Fatal("failed to seed shifts", zap.Error(err))
	}
	logger.Info("seeding completed")
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, name, email, password, role string, cost int) (int64, error) {
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	const query = `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
        RETURNING id`

	var id int64
	if err := pool.QueryRow(ctx, query, name, email, hash, role).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func seedShifts(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM shifts WHERE user_id=$1`, userID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	nextWeek := tomorrow.AddDate(0, 0, 6)

	shifts := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"Morning Shift", tomorrow.Add(8 * time.Hour), tomorrow.Add(16 * time.Hour)},
		{"Evening Shift", tomorrow.Add(16 * time.Hour), tomorrow.Add(23 * time.Hour)},
		{"Night Shift", nextWeek.Add(23 * time.Hour), nextWeek.AddDate(0, 0, 1).Add(7 * time.Hour)},
	}

	const query = `
        INSERT INTO shifts (name, start_time, end_time, user_id)
        VALUES ($1, $2, $3, $4)`

	for _, s := range shifts {
		if _, err := pool.Exec(ctx, query, s.name, s.start, s.end, userID); err != nil {
			return err
		}
	}
	return nil
}
