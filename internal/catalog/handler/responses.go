package handler

import (
	"hamon/internal/catalog/models"
	"hamon/pkg/platform/validation"
)

type Pagination struct {
	Total   int `json:"total"`
	Pages   int `json:"pages"`
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

type ListResponse struct {
	Swords     []*models.Sword `json:"swords"`
	Pagination Pagination      `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toListResponse(page *models.Page, current, limit int) *ListResponse {
	return &ListResponse{
		Swords: page.Swords,
		Pagination: Pagination{
			Total:   page.Total,
			Pages:   validation.PageCount(page.Total, limit),
			Current: current,
			Limit:   limit,
		},
	}
}
