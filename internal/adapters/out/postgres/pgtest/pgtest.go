// Package pgtest opens migrated databases for tests: a SQLite file per test,
// or a throwaway PostgreSQL container for integration suites.
package pgtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated database stored under t.TempDir. One connection
// is used so transactions serialize the way row locks would.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "freight.db") + "?_pragma=busy_timeout(5000)"
	db, err := postgres.Open(postgres.Options{
		Driver:       postgres.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Container is a running PostgreSQL with the schema migrated.
type Container struct {
	container *tcpostgres.PostgresContainer
	DB        *gorm.DB
}

// StartPostgres runs postgres:15-alpine. Callers skip it under -short.
func StartPostgres(ctx context.Context) (*Container, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	db, err := postgres.Open(postgres.Options{DSN: dsn, MaxOpenConns: 20, LogLevel: logger.Silent})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &Container{container: container, DB: db}, nil
}

// Truncate empties every table between tests.
func (c *Container) Truncate() error {
	return c.DB.Exec("TRUNCATE TABLE orders, quotes, vehicles, addresses, profiles").Error
}

func (c *Container) Terminate(ctx context.Context) error {
	if sqlDB, err := c.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return c.container.Terminate(ctx)
}
