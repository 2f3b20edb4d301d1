package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"hamon/internal/catalog/models"
)

// SwordCreator adds swords to the catalog.
type SwordCreator interface {
	Create(ctx context.Context, sword *models.Sword) (*models.Sword, error)
}

// SwordCounter reports how many swords the catalog holds.
type SwordCounter interface {
	Count(ctx context.Context) (int, error)
}

// Seeder populates an empty catalog with demo data
type Seeder struct {
	swords  SwordCreator
	counter SwordCounter
	logger  *slog.Logger
}

// New creates a new seeder
func New(swords SwordCreator, counter SwordCounter, logger *slog.Logger) *Seeder {
	return &Seeder{swords: swords, counter: counter, logger: logger}
}

// SeedAll adds the demo swords unless the catalog already has entries.
func (s *Seeder) SeedAll(ctx context.Context) error {
	count, err := s.counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count swords: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "catalog already populated, skipping seed", "swords", count)
		return nil
	}

	for _, sword := range DemoSwords() {
		if _, err := s.swords.Create(ctx, sword); err != nil {
			return fmt.Errorf("failed to seed %s: %w", sword.Name, err)
		}
	}
	s.logger.InfoContext(ctx, "demo data seeded", "swords", len(DemoSwords()))
	return nil
}

// DemoSwords returns fresh copies of the demo catalog.
func DemoSwords() []*models.Sword {
	return []*models.Sword{
		{
			Category:     models.CategoryKatana,
			Name:         "Masamune Katana",
			NameJapanese: "正宗刀",
			Description:  "A masterpiece from the legendary swordsmith Masamune. Known for its exceptional sharpness and beautiful hamon pattern.",
			Price:        25000.00,
			Craftsman:    "Gorō Nyūdō Masamune",
			Era:          "Kamakura Period",
			Image:        "/images/masamune-katana.jpg",
			Available:    true,
			Specifications: map[string]any{
				"steelType": "Tamahagane",
				"pattern":   "Notare-midare",
				"polisher":  "Honami School",
				"length":    73.5,
				"weight":    1.2,
				"features": []any{
					"Notare-midare hamon pattern",
					"Honami school polishing",
					"Original Edo period koshirae",
					"NBTHK Juyo Token certification",
				},
			},
		},
		{
			Category:     models.CategoryWakizashi,
			Name:         "Muramasa Wakizashi",
			NameJapanese: "村正脇差",
			Description:  "A companion sword by the famous Muramasa school. Known for its aggressive cutting ability and distinctive koshirae.",
			Price:        15000.00,
			Craftsman:    "Sengo Muramasa",
			Era:          "Muromachi Period",
			Image:        "/images/muramasa-wakizashi.jpg",
			Available:    true,
			Specifications: map[string]any{
				"steelType": "Tamahagane",
				"pattern":   "Gunome-midare",
				"polisher":  "Fujishiro School",
				"length":    52.0,
				"weight":    0.9,
				"features": []any{
					"Gunome-midare hamon pattern",
					"Fujishiro school polishing",
					"Custom crafted Edo period mountings",
					"Historical documentation included",
				},
			},
		},
		{
			Category:     models.CategoryTanto,
			Name:         "Kunimitsu Tanto",
			NameJapanese: "国光短刀",
			Description:  "An elegant tanto from the Soshu tradition. Perfect balance of form and function with exquisite koshirae.",
			Price:        8000.00,
			Craftsman:    "Awataguchi Kunimitsu",
			Era:          "Kamakura Period",
			Image:        "/images/kunimitsu-tanto.jpg",
			Available:    true,
			Specifications: map[string]any{
				"steelType": "Tamahagane",
				"pattern":   "Suguha",
				"polisher":  "Nagayama School",
				"length":    29.7,
				"weight":    0.4,
				"features": []any{
					"Suguha hamon pattern",
					"Nagayama school polishing",
					"Shirasaya storage mount",
					"Museum-grade preservation",
				},
			},
		},
	}
}
