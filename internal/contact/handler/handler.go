package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hamon/internal/contact/models"
	"hamon/internal/contact/service"
	"hamon/internal/intake"
)

type Service interface {
	Submit(ctx context.Context, cmd service.SubmitCommand) (*models.Submission, error)
}

// SubmitContactRequest is the contact form payload.
type SubmitContactRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Interest    string  `json:"interest" validate:"required,oneof=katana wakizashi tanto custom consultation"`
	Message     string  `json:"message" validate:"required,min=10,max=1000"`
	AcceptTerms bool    `json:"acceptTerms" validate:"accepted"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	service  Service
	pipeline *intake.Pipeline
}

func New(service Service, pipeline *intake.Pipeline) *Handler {
	return &Handler{service: service, pipeline: pipeline}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/contact", intake.Handle(h.pipeline, intake.Endpoint[SubmitContactRequest]{
		Name:        "contact",
		RateLimited: true,
		Decode:      intake.JSONBody[SubmitContactRequest],
		Process:     h.submit,
	}))
}

func (h *Handler) submit(ctx context.Context, _ *http.Request, req *SubmitContactRequest) (any, error) {
	_, err := h.service.Submit(ctx, service.SubmitCommand{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Interest: models.Interest(req.Interest),
		Message:  req.Message,
	})
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Message: service.MessageSubmitted}, nil
}
