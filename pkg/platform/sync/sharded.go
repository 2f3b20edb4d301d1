// Package sync provides key-sharded locking for per-key read-modify-write.
package sync

import (
	"sync"
)

// ShardCount is the number of independent locks keys are spread over.
const ShardCount = 32

// ShardedMap is a string-keyed map split across ShardCount shards, each
// behind its own mutex. Operations on one key are serialised; operations on
// keys in different shards run in parallel.
type ShardedMap[V any] struct {
	shards [ShardCount]shard[V]
}

type shard[V any] struct {
	mu    sync.Mutex
	items map[string]V
}

// NewShardedMap creates an empty ShardedMap.
func NewShardedMap[V any]() *ShardedMap[V] {
	m := &ShardedMap[V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[string]V)
	}
	return m
}

// Update runs fn under the key's shard lock with the current value (and
// whether it exists). fn returns the value to store and whether to keep it;
// keep=false deletes the key. fn must not call back into the map.
func (m *ShardedMap[V]) Update(key string, fn func(current V, exists bool) (next V, keep bool)) {
	s := &m.shards[ShardFor(key)]
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.items[key]
	next, keep := fn(current, exists)
	if keep {
		s.items[key] = next
		return
	}
	delete(s.items, key)
}

// Get returns a copy of the stored value.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	s := &m.shards[ShardFor(key)]
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

// DeleteFunc removes every entry for which drop returns true, one shard at a
// time, and returns how many were removed.
func (m *ShardedMap[V]) DeleteFunc(drop func(key string, v V) bool) int {
	removed := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for k, v := range s.items {
			if drop(k, v) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of entries across all shards.
func (m *ShardedMap[V]) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		n += len(s.items)
		s.mu.Unlock()
	}
	return n
}

// ShardFor returns the shard index for key. Empty keys map to shard 0.
func ShardFor(key string) int {
	if key == "" {
		return 0
	}
	return int(hashString(key) % ShardCount)
}

// hashString is a djb2-style hash used for shard selection.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}
