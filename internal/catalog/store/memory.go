package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"hamon/internal/catalog/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
)

// InMemory keeps the catalog in a map for the demo environment and tests.
type InMemory struct {
	mu     sync.RWMutex
	swords map[id.SwordID]*models.Sword
}

func NewInMemory() *InMemory {
	return &InMemory{swords: make(map[id.SwordID]*models.Sword)}
}

func (s *InMemory) Create(_ context.Context, sword *models.Sword) error {
	if sword == nil {
		return fmt.Errorf("sword is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.swords[sword.ID]; exists {
		return fmt.Errorf("sword %s: %w", sword.ID, sentinel.ErrConflict)
	}
	s.swords[sword.ID] = clone(sword)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, swordID id.SwordID) (*models.Sword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sword, ok := s.swords[swordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(sword), nil
}

// List returns the requested page and the number of swords matching the
// filter before paging.
func (s *InMemory) List(_ context.Context, filter models.ListFilter) (*models.Page, error) {
	s.mu.RLock()
	matched := make([]*models.Sword, 0, len(s.swords))
	for _, sword := range s.swords {
		if filter.Matches(sword) {
			matched = append(matched, clone(sword))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *models.Sword) int {
		var c int
		if filter.SortBy == models.SortByPrice {
			c = cmp.Compare(a.Price, b.Price)
		} else {
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if filter.Desc {
			return -c
		}
		return c
	})

	page := &models.Page{Total: len(matched), Swords: []*models.Sword{}}
	if filter.Offset < len(matched) {
		end := min(filter.Offset+filter.Limit, len(matched))
		page.Swords = matched[filter.Offset:end]
	}
	return page, nil
}

func (s *InMemory) Update(_ context.Context, sword *models.Sword) error {
	if sword == nil {
		return fmt.Errorf("sword is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.swords[sword.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.swords[sword.ID] = clone(sword)
	return nil
}

func (s *InMemory) Delete(_ context.Context, swordID id.SwordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.swords[swordID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.swords, swordID)
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.swords), nil
}

func clone(sword *models.Sword) *models.Sword {
	c := *sword
	c.Specifications = maps.Clone(sword.Specifications)
	return &c
}
