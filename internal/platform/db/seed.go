package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/platform/config"
)

// Seed makes sure a default store and an owner account exist so a fresh
// install can be logged into. Re-running it is harmless.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if _, err := ensureStore(ctx, pool, cfg.SeedStoreName); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.SeedOwnerEmail) != "" {
		if err := ensureOwner(ctx, pool, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword); err != nil {
			return err
		}
	}
	return nil
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `SELECT id FROM stores WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO stores (name, address, opening_hour, closing_hour, min_hours_before_give, max_staff_per_shift, allow_cross_store_swap)
    VALUES ($1, '', 8, 22, 2, 10, false)
    RETURNING id
  `, name).Scan(&id)
	return id, err
}

func ensureOwner(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, `SELECT id FROM workers WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO workers (name, email, role, password_hash, hourly_rate, active)
    VALUES ('Owner', $1, $2, $3, 0, true)
  `, email, auth.RoleOwner, hash)
	return err
}
