package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skilltrack/internal/domain/auth"
	"skilltrack/internal/domain/skills"
	"skilltrack/internal/platform/config"
)

// Seed is idempotent: it ensures the fixed skill catalog exists and,
// when configured, an admin account. Re-running it never duplicates rows.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureSkills(ctx, pool); err != nil {
		return err
	}
	return ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureSkills(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range skills.Catalog {
		_, err := pool.Exec(ctx, "INSERT INTO skills (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, display_name, is_admin)
    VALUES ($1, $2, $3, true)
    RETURNING id
  `, email, hash, "Admin").Scan(&id)
}
