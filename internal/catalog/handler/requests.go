package handler

import (
	"hamon/internal/catalog/models"
	"hamon/pkg/platform/validation"
)

// ListSwordsRequest is the catalog query string.
type ListSwordsRequest struct {
	Page     int    `query:"page" default:"1" validate:"min=1"`
	Limit    int    `query:"limit" default:"10" validate:"min=1,max=100"`
	Category string `query:"category" validate:"omitempty,oneof=KATANA WAKIZASHI TANTO"`
	Search   string `query:"search" validate:"omitempty,max=100"`
	SortBy   string `query:"sortBy" default:"createdAt" validate:"oneof=price createdAt"`
	Order    string `query:"order" default:"desc" validate:"oneof=asc desc"`
}

func (r *ListSwordsRequest) ToFilter() models.ListFilter {
	return models.ListFilter{
		Category: models.Category(r.Category),
		Search:   r.Search,
		SortBy:   models.SortField(r.SortBy),
		Desc:     r.Order == "desc",
		Offset:   (r.Page - 1) * r.Limit,
		Limit:    r.Limit,
	}
}

// UpdateSwordRequest replaces a sword's editable fields.
type UpdateSwordRequest struct {
	Name           string            `json:"name" validate:"required,notblank"`
	NameJapanese   string            `json:"nameJapanese" validate:"required,notblank"`
	Category       string            `json:"category" validate:"required,oneof=KATANA WAKIZASHI TANTO"`
	Price          float64           `json:"price" validate:"required,gt=0"`
	Description    string            `json:"description" validate:"required,min=10"`
	Craftsman      string            `json:"craftsman" validate:"required,notblank"`
	Era            string            `json:"era" validate:"required,notblank"`
	Image          string            `json:"image" validate:"required,url"`
	Specifications map[string]string `json:"specifications" validate:"required"`
	Available      *bool             `json:"available,omitempty"`
}

// Validate bounds the free-form specification map.
func (r *UpdateSwordRequest) Validate() error {
	if err := validation.CheckMapSize("specifications", len(r.Specifications), validation.MaxSpecifications); err != nil {
		return err
	}
	return validation.CheckEachEntryLength("specifications", r.Specifications, validation.MaxSpecificationLength)
}

func (r *UpdateSwordRequest) ToUpdate() models.Update {
	return models.Update{
		Name:           r.Name,
		NameJapanese:   r.NameJapanese,
		Category:       models.Category(r.Category),
		Price:          r.Price,
		Description:    r.Description,
		Craftsman:      r.Craftsman,
		Era:            r.Era,
		Image:          r.Image,
		Specifications: r.Specifications,
		Available:      r.Available,
	}
}
