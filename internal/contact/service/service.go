// Package service accepts contact form submissions. Delivering a reply is
// out of scope; a submission is logged and stored for staff to follow up.
package service

import (
	"context"
	"errors"

	contactmetrics "hamon/internal/contact/metrics"
	"hamon/internal/contact/models"
	"hamon/internal/platform/logger"
	id "hamon/pkg/domain"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/middleware/requesttime"
	"hamon/pkg/platform/privacy"
)

// MessageSubmitted is the success body message.
const MessageSubmitted = "Contact form submitted successfully"

type Store interface {
	Save(ctx context.Context, sub *models.Submission) error
}

type Reporter interface {
	LogInfo(ctx context.Context, msg string, fields logger.Fields)
}

type SubmitCommand struct {
	Name     string
	Email    string
	Phone    *string
	Interest models.Interest
	Message  string
}

type Service struct {
	store    Store
	reporter Reporter
	metrics  *contactmetrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *contactmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, reporter Reporter, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("submission store is required")
	}
	if reporter == nil {
		return nil, errors.New("reporter is required")
	}
	s := &Service{store: store, reporter: reporter}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*models.Submission, error) {
	s.reporter.LogInfo(ctx, "contact form submission received", logger.Fields{
		"name":     cmd.Name,
		"email":    privacy.MaskEmail(cmd.Email),
		"interest": string(cmd.Interest),
	})

	sub := &models.Submission{
		ID:        id.NewSubmissionID(),
		Name:      cmd.Name,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		Interest:  cmd.Interest,
		Message:   cmd.Message,
		CreatedAt: requesttime.Now(ctx),
	}
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store contact submission")
	}
	if s.metrics != nil {
		s.metrics.IncrementSubmissions(string(cmd.Interest))
	}
	return sub, nil
}
