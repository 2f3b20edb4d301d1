package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/internal/contact/models"
)

var submission = models.Submission{
	ID:        "csub0000001",
	Name:      "Jo",
	Email:     "jo@example.com",
	Interest:  models.InterestKatana,
	Message:   "I would like a katana",
	CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
}

func TestInMemorySave(t *testing.T) {
	s := NewInMemory()
	sub := submission
	require.NoError(t, s.Save(context.Background(), &sub))
	sub.Name = "changed"

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Jo", all[0].Name)
	assert.Error(t, s.Save(context.Background(), nil))
}

func TestPostgresSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgres(db)

	phone := "+15551234567"
	sub := submission
	sub.Phone = &phone
	mock.ExpectExec(regexp.QuoteMeta(insertSubmissionQuery)).
		WithArgs("csub0000001", "Jo", "jo@example.com", "+15551234567", "katana", "I would like a katana", sub.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(context.Background(), &sub))

	mock.ExpectExec(regexp.QuoteMeta(insertSubmissionQuery)).
		WithArgs("csub0000001", "Jo", "jo@example.com", nil, "katana", "I would like a katana", sub.CreatedAt).
		WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, s.Save(context.Background(), &submission), "save contact submission")

	assert.NoError(t, mock.ExpectationsWereMet())
}
