package service

import (
	"context"
	"errors"
	"log/slog"

	catalogmodels "hamon/internal/catalog/models"
	"hamon/internal/inquiry/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/middleware/requesttime"
)

type Store interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	List(ctx context.Context, userID id.UserID) ([]*models.Inquiry, error)
}

// SwordLookup resolves the sword an inquiry refers to.
type SwordLookup interface {
	Get(ctx context.Context, swordID id.SwordID) (*catalogmodels.Sword, error)
}

// CreateCommand is a validated inquiry submission.
type CreateCommand struct {
	UserID   id.UserID
	SwordID  *id.SwordID
	Interest models.Interest
	Message  string
}

type Service struct {
	store  Store
	swords SwordLookup
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, swords SwordLookup, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("inquiry store is required")
	}
	if swords == nil {
		return nil, errors.New("sword lookup is required")
	}
	s := &Service{store: store, swords: swords, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create records an inquiry. A referenced sword must exist.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Inquiry, error) {
	var sword *catalogmodels.Sword
	if cmd.SwordID != nil {
		found, err := s.swords.Get(ctx, *cmd.SwordID)
		if err != nil {
			return nil, err
		}
		sword = found
	}

	inquiry := models.NewInquiry(cmd.UserID, cmd.SwordID, cmd.Interest, cmd.Message, requesttime.Now(ctx))
	if err := s.store.Create(ctx, inquiry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Sword not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create inquiry")
	}
	inquiry.Sword = sword

	s.logger.InfoContext(ctx, "inquiry created",
		"inquiry_id", inquiry.ID.String(),
		"interest", string(inquiry.Interest),
	)
	return inquiry, nil
}

// List returns a user's inquiries newest first with their swords embedded.
// An empty userID lists all inquiries.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Inquiry, error) {
	inquiries, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inquiries")
	}

	swords := make(map[id.SwordID]*catalogmodels.Sword)
	for _, inq := range inquiries {
		if inq.SwordID == nil {
			continue
		}
		sword, seen := swords[*inq.SwordID]
		if !seen {
			sword, err = s.swords.Get(ctx, *inq.SwordID)
			if err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil, err
			}
			swords[*inq.SwordID] = sword
		}
		inq.Sword = sword
	}
	return inquiries, nil
}
