package window

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hamon/internal/ratelimit/models"
)

const (
	lockWindowQuery   = `SELECT pg_advisory_xact_lock(hashtext($1)::bigint)`
	selectWindowQuery = `SELECT count, window_start FROM rate_limit_windows WHERE key = $1`
	upsertWindowQuery = `INSERT INTO rate_limit_windows (key, count, window_start)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET count = EXCLUDED.count, window_start = EXCLUDED.window_start`
	deleteWindowQuery = `DELETE FROM rate_limit_windows WHERE key = $1`
	evictWindowsQuery = `DELETE FROM rate_limit_windows WHERE window_start <= $1`
)

// PostgresStore persists windows in the rate_limit_windows table. A
// transaction-scoped advisory lock on the key serialises concurrent checks
// for the same client across instances.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed window store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Allow(ctx context.Context, key string, limit models.Limit, now time.Time) (*models.Decision, error) {
	if key == "" {
		return nil, fmt.Errorf("rate limit key is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rate limit tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, lockWindowQuery, key); err != nil {
		return nil, fmt.Errorf("acquire rate limit lock: %w", err)
	}

	current := models.ClientWindow{Key: key}
	exists := true
	err = tx.QueryRowContext(ctx, selectWindowQuery, key).Scan(&current.Count, &current.WindowStart)
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return nil, fmt.Errorf("read rate limit window: %w", err)
	}

	next, decision := models.Step(key, current, exists, limit, now)
	if decision.Allowed {
		if _, err := tx.ExecContext(ctx, upsertWindowQuery, key, next.Count, next.WindowStart); err != nil {
			return nil, fmt.Errorf("write rate limit window: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rate limit tx: %w", err)
	}
	return &decision, nil
}

func (s *PostgresStore) Reset(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("rate limit key is required")
	}
	if _, err := s.db.ExecContext(ctx, deleteWindowQuery, key); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}

// EvictExpired deletes windows that started at or before cutoff.
func (s *PostgresStore) EvictExpired(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, evictWindowsQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("evict rate limit windows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("evicted rows: %w", err)
	}
	return int(n), nil
}
