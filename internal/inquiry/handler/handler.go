package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hamon/internal/inquiry/models"
	"hamon/internal/inquiry/service"
	"hamon/internal/intake"
	id "hamon/pkg/domain"
)

type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Inquiry, error)
	List(ctx context.Context, userID id.UserID) ([]*models.Inquiry, error)
}

type Handler struct {
	service  Service
	pipeline *intake.Pipeline
}

func New(service Service, pipeline *intake.Pipeline) *Handler {
	return &Handler{service: service, pipeline: pipeline}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/inquiries", intake.Handle(h.pipeline, intake.Endpoint[CreateInquiryRequest]{
		Name:        "inquiries.create",
		Status:      http.StatusCreated,
		RateLimited: true,
		Decode:      intake.JSONBody[CreateInquiryRequest],
		Process:     h.create,
	}))
	r.Get("/api/inquiries", intake.Handle(h.pipeline, intake.Endpoint[ListInquiriesRequest]{
		Name:    "inquiries.list",
		Decode:  intake.Query[ListInquiriesRequest],
		Process: h.list,
	}))
}

func (h *Handler) create(ctx context.Context, _ *http.Request, req *CreateInquiryRequest) (any, error) {
	return h.service.Create(ctx, req.ToCommand())
}

func (h *Handler) list(ctx context.Context, _ *http.Request, req *ListInquiriesRequest) (any, error) {
	return h.service.List(ctx, id.UserID(req.UserID))
}
