package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/internal/inquiry/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgres(db), mock
}

func TestPostgresCreate(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sid := id.SwordID("ckatana0001")
	inq := &models.Inquiry{ID: "cinq0000001", UserID: "cuser000001", SwordID: &sid, Interest: models.InterestKatana, Message: "Is this blade still available?", CreatedAt: created}

	t.Run("writes the sword reference", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(insertInquiryQuery)).
			WithArgs("cinq0000001", "cuser000001", "ckatana0001", "KATANA", inq.Message, created).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, s.Create(ctx, inq))
	})

	t.Run("dangling sword is not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(insertInquiryQuery)).WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, s.Create(ctx, inq), sentinel.ErrNotFound)
	})
}

func TestPostgresList(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(listInquiriesQuery)).WithArgs("cuser000001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "sword_id", "interest", "message", "created_at"}).
			AddRow("cinq0000002", "cuser000001", nil, "CUSTOM", "A custom commission", created.Add(time.Hour)).
			AddRow("cinq0000001", "cuser000001", "ckatana0001", "KATANA", "Is this blade still available?", created))

	got, err := s.List(context.Background(), "cuser000001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].SwordID)
	require.NotNil(t, got[1].SwordID)
	assert.Equal(t, id.SwordID("ckatana0001"), *got[1].SwordID)
	assert.Equal(t, models.InterestKatana, got[1].Interest)
}
