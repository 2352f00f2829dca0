package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/worksledger/worksledger/internal/config"
	"github.com/worksledger/worksledger/internal/database"
)

const (
	dbName     = "worksledger"
	dbUser     = "test_worksledger"
	dbPassword = "test_worksledger"
)

// TestDB is a migrated Postgres container shared by a package's repository tests.
type TestDB struct {
	container *postgres.PostgresContainer
	cfg       config.Database
}

func preparePostgresContainer(ctx context.Context) (container *postgres.PostgresContainer, err error) {
	// docker host discovery panics when no runtime is installed
	defer func() {
		if r := recover(); r != nil {
			container, err = nil, fmt.Errorf("container runtime not available: %v", r)
		}
	}()

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
}

// StartDB starts Postgres, applies all migrations and snapshots the clean
// schema. It returns nil when no container runtime is available; callers
// then skip their repository tests through Open.
func StartDB() *TestDB {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		log.Warnf("postgres container unavailable, repository tests will be skipped: %v", err)
		return nil
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: "worksledger",
	}

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	if err := container.Snapshot(ctx, postgres.WithSnapshotName("worksledger-test-snapshot")); err != nil {
		log.Fatalf("Failed to snapshot postgres container: %v", err)
	}
	return &TestDB{container: container, cfg: cfg}
}

// Open returns a pool onto the clean schema. The pool is closed and the
// snapshot restored when the test ends.
func (d *TestDB) Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if d == nil {
		t.Skip("postgres container unavailable")
	}
	ctx := context.Background()
	pool, err := database.Open(ctx, d.cfg)
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
		if err := d.container.Restore(ctx); err != nil {
			t.Errorf("failed to restore snapshot: %v", err)
		}
	})
	return pool
}

func (d *TestDB) Terminate() {
	if d == nil {
		return
	}
	if err := testcontainers.TerminateContainer(d.container); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}
