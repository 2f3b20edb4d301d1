package main

import (
	"context"

	catalogService "hamon/internal/catalog/service"
	catalogStore "hamon/internal/catalog/store"
	contactService "hamon/internal/contact/service"
	contactStore "hamon/internal/contact/store"
	inquiryService "hamon/internal/inquiry/service"
	inquiryStore "hamon/internal/inquiry/store"
	"hamon/internal/platform/database"
)

// swordStore is what the catalog service and the seeder need together.
type swordStore interface {
	catalogService.Store
	Count(ctx context.Context) (int, error)
}

type stores struct {
	swords      swordStore
	inquiries   inquiryService.Store
	submissions contactService.Store
}

// buildStores selects Postgres-backed stores when a pool is configured and
// in-memory ones otherwise.
func buildStores(pool *database.Pool) stores {
	if pool == nil {
		return stores{
			swords:      catalogStore.NewInMemory(),
			inquiries:   inquiryStore.NewInMemory(),
			submissions: contactStore.NewInMemory(),
		}
	}
	db := pool.DB()
	return stores{
		swords:      catalogStore.NewPostgres(db),
		inquiries:   inquiryStore.NewPostgres(db),
		submissions: contactStore.NewPostgres(db),
	}
}
