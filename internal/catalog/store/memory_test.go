package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/internal/catalog/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*InMemory, []*models.Sword) {
	t.Helper()
	s := NewInMemory()
	swords := []*models.Sword{
		{ID: "ckatana0001", Name: "Masamune Katana", Category: models.CategoryKatana, Price: 25000, Description: "hamon pattern", CreatedAt: t0},
		{ID: "cwakiza0001", Name: "Muramasa Wakizashi", Category: models.CategoryWakizashi, Price: 15000, Description: "companion sword", CreatedAt: t0.Add(time.Minute)},
		{ID: "ctanto00001", Name: "Kunimitsu Tanto", Category: models.CategoryTanto, Price: 8000, Description: "soshu tradition", CreatedAt: t0.Add(2 * time.Minute)},
	}
	for _, sw := range swords {
		require.NoError(t, s.Create(context.Background(), sw))
	}
	return s, swords
}

func ids(page *models.Page) []id.SwordID {
	out := make([]id.SwordID, 0, len(page.Swords))
	for _, s := range page.Swords {
		out = append(out, s.ID)
	}
	return out
}

func TestInMemoryList(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ListFilter
		want   []id.SwordID
		total  int
	}{
		{"newest first", models.ListFilter{SortBy: models.SortByCreatedAt, Desc: true, Limit: 10}, []id.SwordID{"ctanto00001", "cwakiza0001", "ckatana0001"}, 3},
		{"cheapest first", models.ListFilter{SortBy: models.SortByPrice, Limit: 10}, []id.SwordID{"ctanto00001", "cwakiza0001", "ckatana0001"}, 3},
		{"second page", models.ListFilter{SortBy: models.SortByPrice, Desc: true, Offset: 2, Limit: 2}, []id.SwordID{"ctanto00001"}, 3},
		{"past the end", models.ListFilter{Offset: 10, Limit: 10}, []id.SwordID{}, 3},
		{"category", models.ListFilter{Category: models.CategoryKatana, Limit: 10}, []id.SwordID{"ckatana0001"}, 1},
		{"search", models.ListFilter{Search: "MURAMASA", Limit: 10}, []id.SwordID{"cwakiza0001"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestInMemoryLifecycle(t *testing.T) {
	s, swords := seeded(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Create(ctx, swords[0]), sentinel.ErrConflict)

	found, err := s.FindByID(ctx, swords[0].ID)
	require.NoError(t, err)
	found.Name = "changed"
	again, err := s.FindByID(ctx, swords[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Masamune Katana", again.Name, "callers get copies")

	require.NoError(t, s.Update(ctx, found))
	again, err = s.FindByID(ctx, swords[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Name)

	require.NoError(t, s.Delete(ctx, swords[0].ID))
	_, err = s.FindByID(ctx, swords[0].ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, swords[0].ID), sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, swords[0]), sentinel.ErrNotFound)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
