package store

import (
	"context"
	"fmt"
	"sync"

	"hamon/internal/contact/models"
)

// InMemory keeps contact submissions for the demo environment.
type InMemory struct {
	mu          sync.Mutex
	submissions []models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Save(_ context.Context, sub *models.Submission) error {
	if sub == nil {
		return fmt.Errorf("submission is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, *sub)
	return nil
}

// All returns a copy of every stored submission in arrival order.
func (s *InMemory) All() []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}
