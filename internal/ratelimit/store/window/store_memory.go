package window

import (
	"context"
	"fmt"
	"time"

	"hamon/internal/ratelimit/models"
	"hamon/pkg/platform/sync"
)

// InMemoryStore keeps windows in process memory. Keys are spread over the
// shards of a sync.ShardedMap so checks for different clients rarely contend.
type InMemoryStore struct {
	windows *sync.ShardedMap[models.ClientWindow]
}

// NewInMemoryStore creates an empty in-memory window store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: sync.NewShardedMap[models.ClientWindow]()}
}

// Allow applies models.Step under the key's shard lock.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit models.Limit, now time.Time) (*models.Decision, error) {
	if key == "" {
		return nil, fmt.Errorf("rate limit key is required")
	}
	var decision models.Decision
	s.windows.Update(key, func(current models.ClientWindow, exists bool) (models.ClientWindow, bool) {
		next, d := models.Step(key, current, exists, limit, now)
		decision = d
		return next, true
	})
	return &decision, nil
}

// Reset clears the window for a key.
func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.windows.Update(key, func(models.ClientWindow, bool) (models.ClientWindow, bool) {
		return models.ClientWindow{}, false
	})
	return nil
}

// Get returns a copy of the window for key.
func (s *InMemoryStore) Get(key string) (models.ClientWindow, bool) {
	return s.windows.Get(key)
}

// EvictExpired drops windows that started at or before cutoff.
func (s *InMemoryStore) EvictExpired(_ context.Context, cutoff time.Time) (int, error) {
	return s.windows.DeleteFunc(func(_ string, w models.ClientWindow) bool {
		return !w.WindowStart.After(cutoff)
	}), nil
}

// Len returns the number of tracked windows.
func (s *InMemoryStore) Len() int {
	return s.windows.Len()
}
