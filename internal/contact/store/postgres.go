package store

import (
	"context"
	"database/sql"
	"fmt"

	"hamon/internal/contact/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertSubmissionQuery = `
	INSERT INTO contact_submissions (id, name, email, phone, interest, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (s *PostgresStore) Save(ctx context.Context, sub *models.Submission) error {
	if sub == nil {
		return fmt.Errorf("submission is required")
	}
	var phone sql.NullString
	if sub.Phone != nil {
		phone = sql.NullString{String: *sub.Phone, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, insertSubmissionQuery,
		sub.ID.String(),
		sub.Name,
		sub.Email,
		phone,
		string(sub.Interest),
		sub.Message,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save contact submission: %w", err)
	}
	return nil
}
