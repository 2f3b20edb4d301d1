package service

import (
	"context"
	"errors"
	"log/slog"

	"hamon/internal/catalog/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/middleware/requesttime"
)

// MessageSwordNotFound is the caller-facing message for a missing sword.
const MessageSwordNotFound = "Sword not found"

type Store interface {
	Create(ctx context.Context, sword *models.Sword) error
	FindByID(ctx context.Context, swordID id.SwordID) (*models.Sword, error)
	List(ctx context.Context, filter models.ListFilter) (*models.Page, error)
	Update(ctx context.Context, sword *models.Sword) error
	Delete(ctx context.Context, swordID id.SwordID) error
}

// Service owns the sword catalog.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("sword store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create adds a sword, assigning an id and timestamps when missing.
func (s *Service) Create(ctx context.Context, sword *models.Sword) (*models.Sword, error) {
	if sword == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "sword is required")
	}
	now := requesttime.Now(ctx)
	if sword.ID.IsNil() {
		sword.ID = id.NewSwordID()
	}
	if sword.CreatedAt.IsZero() {
		sword.CreatedAt = now
	}
	sword.UpdatedAt = now
	if err := s.store.Create(ctx, sword); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "Sword already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sword")
	}
	return sword, nil
}

func (s *Service) Get(ctx context.Context, swordID id.SwordID) (*models.Sword, error) {
	sword, err := s.store.FindByID(ctx, swordID)
	if err != nil {
		return nil, translate(err, "failed to load sword")
	}
	return sword, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	page, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list swords")
	}
	return page, nil
}

// Update replaces the sword's editable fields.
func (s *Service) Update(ctx context.Context, swordID id.SwordID, update models.Update) (*models.Sword, error) {
	sword, err := s.store.FindByID(ctx, swordID)
	if err != nil {
		return nil, translate(err, "failed to load sword")
	}
	sword.Apply(update, requesttime.Now(ctx))
	if err := s.store.Update(ctx, sword); err != nil {
		return nil, translate(err, "failed to update sword")
	}
	s.logger.InfoContext(ctx, "sword updated", "sword_id", swordID.String())
	return sword, nil
}

func (s *Service) Delete(ctx context.Context, swordID id.SwordID) error {
	if err := s.store.Delete(ctx, swordID); err != nil {
		return translate(err, "failed to delete sword")
	}
	s.logger.InfoContext(ctx, "sword deleted", "sword_id", swordID.String())
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, MessageSwordNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
