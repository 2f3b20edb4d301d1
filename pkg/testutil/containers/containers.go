//go:build integration

// Package containers starts the Postgres and Redis instances used by
// integration-tagged suites. Each is started once per test binary and shared.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out the shared containers, starting each on first use.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
}

var shared = sync.OnceValue(func() *Manager { return &Manager{} })

// GetManager returns the process-wide Manager.
func GetManager() *Manager {
	return shared()
}

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return lazy(m, &m.postgres, func() *PostgresContainer { return NewPostgresContainer(t) })
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return lazy(m, &m.redis, func() *RedisContainer { return NewRedisContainer(t) })
}

func lazy[C any](m *Manager, slot **C, start func() *C) *C {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *slot == nil {
		*slot = start()
	}
	return *slot
}
