package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hamon/internal/catalog/models"
	"hamon/internal/intake"
	id "hamon/pkg/domain"
	dErrors "hamon/pkg/domain-errors"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	Get(ctx context.Context, swordID id.SwordID) (*models.Sword, error)
	List(ctx context.Context, filter models.ListFilter) (*models.Page, error)
	Update(ctx context.Context, swordID id.SwordID, update models.Update) (*models.Sword, error)
	Delete(ctx context.Context, swordID id.SwordID) error
}

type Handler struct {
	service  Service
	pipeline *intake.Pipeline
}

func New(service Service, pipeline *intake.Pipeline) *Handler {
	return &Handler{service: service, pipeline: pipeline}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/swords", intake.Handle(h.pipeline, intake.Endpoint[ListSwordsRequest]{
		Name:    "swords.list",
		Decode:  intake.Query[ListSwordsRequest],
		Process: h.list,
	}))
	r.Get("/api/swords/{id}", intake.Handle(h.pipeline, intake.Endpoint[intake.NoPayload]{
		Name:    "swords.get",
		Decode:  intake.NoBody,
		Process: h.get,
	}))
	r.Put("/api/swords/{id}", intake.Handle(h.pipeline, intake.Endpoint[UpdateSwordRequest]{
		Name:        "swords.update",
		RateLimited: true,
		Decode:      intake.JSONBody[UpdateSwordRequest],
		Process:     h.update,
	}))
	r.Delete("/api/swords/{id}", intake.Handle(h.pipeline, intake.Endpoint[intake.NoPayload]{
		Name:        "swords.delete",
		RateLimited: true,
		Decode:      intake.NoBody,
		Process:     h.delete,
	}))
}

func (h *Handler) list(ctx context.Context, _ *http.Request, req *ListSwordsRequest) (any, error) {
	page, err := h.service.List(ctx, req.ToFilter())
	if err != nil {
		return nil, err
	}
	return toListResponse(page, req.Page, req.Limit), nil
}

func (h *Handler) get(ctx context.Context, r *http.Request, _ *intake.NoPayload) (any, error) {
	swordID, err := swordIDParam(r)
	if err != nil {
		return nil, err
	}
	return h.service.Get(ctx, swordID)
}

func (h *Handler) update(ctx context.Context, r *http.Request, req *UpdateSwordRequest) (any, error) {
	swordID, err := swordIDParam(r)
	if err != nil {
		return nil, err
	}
	return h.service.Update(ctx, swordID, req.ToUpdate())
}

func (h *Handler) delete(ctx context.Context, r *http.Request, _ *intake.NoPayload) (any, error) {
	swordID, err := swordIDParam(r)
	if err != nil {
		return nil, err
	}
	if err := h.service.Delete(ctx, swordID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Sword deleted successfully"}, nil
}

// swordIDParam reads the path id. An id that cannot exist is reported the
// same way as one that does not.
func swordIDParam(r *http.Request) (id.SwordID, error) {
	swordID, err := id.ParseSwordID(chi.URLParam(r, "id"))
	if err != nil {
		return "", dErrors.New(dErrors.CodeNotFound, "Sword not found")
	}
	return swordID, nil
}
