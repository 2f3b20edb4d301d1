//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"hamon/internal/platform/config"
	"hamon/internal/platform/database"
	"hamon/migrations"
)

const postgresImage = "postgres:18-alpine"

// storefrontTables lists every migrated table, children first.
var storefrontTables = []string{"inquiries", "swords", "contact_submissions", "rate_limit_windows"}

// PostgresContainer is a migrated Postgres reached through the same pool
// constructor the server uses.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded migrations.
// The container outlives the test: Ryuk reaps it when the binary exits.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("hamon_test"),
		postgres.WithUsername("hamon"),
		postgres.WithPassword("hamon"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	fail := func(format string, args ...any) {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf(format, args...)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fail("postgres dsn: %v", err)
	}
	pool, err := database.New(ctx, config.DatabaseConfig{URL: dsn, MaxOpenConns: 10, MaxIdleConns: 5})
	if err != nil {
		fail("open postgres: %v", err)
	}
	if err := database.Migrate(ctx, pool.DB(), migrations.FS, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		fail("migrate postgres: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: pool.DB()}
}

// TruncateTables empties the named tables in one statement.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("truncate %v: %w", tables, err)
	}
	return nil
}

// TruncateAll empties every storefront table; schema_migrations is kept.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	return p.TruncateTables(ctx, storefrontTables...)
}
