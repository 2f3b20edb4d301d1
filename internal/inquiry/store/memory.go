package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"hamon/internal/inquiry/models"
	id "hamon/pkg/domain"
)

// InMemory keeps inquiries in insertion order.
type InMemory struct {
	mu        sync.RWMutex
	inquiries []*models.Inquiry
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Create(_ context.Context, inquiry *models.Inquiry) error {
	if inquiry == nil {
		return fmt.Errorf("inquiry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *inquiry
	c.Sword = nil
	s.inquiries = append(s.inquiries, &c)
	return nil
}

// List returns inquiries newest first. An empty userID lists everyone's.
func (s *InMemory) List(_ context.Context, userID id.UserID) ([]*models.Inquiry, error) {
	s.mu.RLock()
	out := make([]*models.Inquiry, 0, len(s.inquiries))
	for _, inq := range s.inquiries {
		if userID.IsNil() || inq.UserID == userID {
			c := *inq
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *models.Inquiry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}
