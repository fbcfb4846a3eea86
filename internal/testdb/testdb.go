// Package testdb provisions stores for tests: a throwaway PostgreSQL
// container with the real schema, or a private in-memory SQLite database.
package testdb

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
	"github.com/BuzzLyutic/tarefa-api/internal/repo"
)

// SetupPostgres starts postgres in a container and applies the migrations.
// The test is skipped when no container runtime is available.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	schema := filepath.Join(projectRoot, "migrations", "001_create_tasks.up.sql")

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(schema),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
	return pool
}

// TruncateTables empties the tasks table and resets the id sequence.
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE tasks RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupSQLite returns an empty in-memory database with the tasks table.
// Statement errors are written to the test log.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repo.OpenSQLite(":memory:", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedTasks inserts tasks through r and returns them with their ids.
func SeedTasks(t *testing.T, r repo.TaskRepository, tasks ...model.Task) []model.Task {
	t.Helper()

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == "" {
			task.Status = model.StatusPending
		}
		created, err := r.Create(context.Background(), task)
		if err != nil {
			t.Fatalf("Failed to seed task %q: %v", task.Title, err)
		}
		out = append(out, created)
	}
	return out
}

// Day returns a UTC date at the given time of day.
func Day(year int, month time.Month, day, hour, min int) model.Date {
	return model.NewDate(time.Date(year, month, day, hour, min, 0, 0, time.UTC))
}
