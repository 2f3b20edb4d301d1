package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/internal/inquiry/models"
	id "hamon/pkg/domain"
)

func TestInMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, user := range []id.UserID{"cuserA00001", "cuserB00001", "cuserA00001"} {
		inq := models.NewInquiry(user, nil, models.InterestKatana, "Is this blade still available?", t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Create(ctx, inq))
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	mine, err := s.List(ctx, "cuserA00001")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, t0.Add(2*time.Minute), mine[0].CreatedAt)
	assert.Equal(t, t0, mine[1].CreatedAt)
}
