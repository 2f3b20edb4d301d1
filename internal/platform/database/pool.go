// Package database opens the Postgres pool behind every SQL store and applies
// the embedded schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hamon/internal/platform/config"
)

const (
	driverName  = "pgx"
	pingTimeout = 5 * time.Second
)

// ErrNotConfigured is returned by a nil Pool's health check.
var ErrNotConfigured = errors.New("database not configured")

// Pool is the process-wide *sql.DB. A nil *Pool means the service runs on
// in-memory stores; its methods are safe to call.
type Pool struct {
	db *sql.DB
}

// New opens and pings the pool. It returns (nil, nil) when cfg.URL is empty.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	db, err := sql.Open(driverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{db: db}, nil
}

func (p *Pool) DB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.db
}

// RegisterMetrics exports sql.DBStats as hamon_* collectors on reg.
func (p *Pool) RegisterMetrics(reg prometheus.Registerer) error {
	if p == nil {
		return nil
	}
	return reg.Register(collectors.NewDBStatsCollector(p.db, "hamon"))
}

func (p *Pool) Health(ctx context.Context) error {
	if p == nil {
		return ErrNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	return p.db.Close()
}
