package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"workdesk/internal/domain/auth"
	"workdesk/internal/platform/config"
)

const uniqueViolation = "23505"

// Seed creates the bootstrap manager account. An existing row with the same
// email is left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := seedEmail(cfg)
	if email == "" || cfg.SeedManagerPassword == "" {
		return errors.New("seed manager email and password are required")
	}

	hash, err := auth.HashPassword(cfg.SeedManagerPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO employees (name, email, password, department, role)
    VALUES ($1, $2, $3, $4, 'manager')
  `, cfg.SeedManagerName, email, hash, cfg.SeedDepartment)
	if isUniqueViolation(err) {
		log.Info().Str("email", email).Msg("seed manager already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert seed manager: %w", err)
	}
	log.Info().Str("email", email).Msg("seed manager created")
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// seedEmail keeps the configured case; login matches the stored email exactly.
func seedEmail(cfg config.Config) string {
	return strings.TrimSpace(cfg.SeedManagerEmail)
}
