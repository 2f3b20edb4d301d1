package models

import (
	"strings"
	"time"

	id "hamon/pkg/domain"
)

// Category is the blade family a sword belongs to.
type Category string

const (
	CategoryKatana    Category = "KATANA"
	CategoryWakizashi Category = "WAKIZASHI"
	CategoryTanto     Category = "TANTO"
)

// Sword is one catalog entry. Specifications is free-form because seeded
// entries carry numbers and lists alongside strings.
type Sword struct {
	ID             id.SwordID     `json:"id"`
	Name           string         `json:"name"`
	NameJapanese   string         `json:"nameJapanese"`
	Category       Category       `json:"category"`
	Price          float64        `json:"price"`
	Description    string         `json:"description"`
	Craftsman      string         `json:"craftsman"`
	Era            string         `json:"era"`
	Image          string         `json:"image"`
	Specifications map[string]any `json:"specifications"`
	Available      bool           `json:"available"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// SortField is a column the catalog can be ordered by.
type SortField string

const (
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
)

// ListFilter selects one page of the catalog.
type ListFilter struct {
	Category Category
	Search   string
	SortBy   SortField
	Desc     bool
	Offset   int
	Limit    int
}

// Matches reports whether the sword passes the category and search filters.
// Search is a case-insensitive substring match over both names and the
// description.
func (f ListFilter) Matches(s *Sword) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, hay := range []string{s.Name, s.NameJapanese, s.Description} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Page is one slice of the catalog plus the total matching count.
type Page struct {
	Swords []*Sword
	Total  int
}

// Update carries the replacement fields for a sword. Available is optional;
// nil keeps the current value.
type Update struct {
	Name           string
	NameJapanese   string
	Category       Category
	Price          float64
	Description    string
	Craftsman      string
	Era            string
	Image          string
	Specifications map[string]string
	Available      *bool
}

// Apply copies the update onto the sword.
func (s *Sword) Apply(u Update, now time.Time) {
	s.Name = u.Name
	s.NameJapanese = u.NameJapanese
	s.Category = u.Category
	s.Price = u.Price
	s.Description = u.Description
	s.Craftsman = u.Craftsman
	s.Era = u.Era
	s.Image = u.Image
	specs := make(map[string]any, len(u.Specifications))
	for k, v := range u.Specifications {
		specs[k] = v
	}
	s.Specifications = specs
	if u.Available != nil {
		s.Available = *u.Available
	}
	s.UpdatedAt = now
}
