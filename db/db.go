// Package db establishes the PostgreSQL connection pool used by every service
// and runs schema migrations at startup. The pool is constructed once in main
// and handed to the services explicitly; there is no package-level state.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// migration source
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/config"
)

// NewPool creates a pgx connection pool from the given configuration and
// verifies it with a ping before returning it.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to database %s", cfg.DBName), err)
	}

	return pool, nil
}

// migrationDSN builds the lib/pq style DSN golang-migrate expects.
func migrationDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies all pending migrations from migrationsPath.
// A database that is already up to date is not an error.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, migrationDSN(cfg))
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	return nil
}
