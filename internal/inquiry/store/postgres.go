package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"hamon/internal/inquiry/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
)

// PostgresStore persists inquiries in the inquiries table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	insertInquiryQuery = `
		INSERT INTO inquiries (id, user_id, sword_id, interest, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	listInquiriesQuery = `
		SELECT id, user_id, sword_id, interest, message, created_at
		FROM inquiries
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC, id DESC
	`
)

func (s *PostgresStore) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry == nil {
		return fmt.Errorf("inquiry is required")
	}
	var swordID sql.NullString
	if inquiry.SwordID != nil {
		swordID = sql.NullString{String: inquiry.SwordID.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, insertInquiryQuery,
		inquiry.ID.String(),
		inquiry.UserID.String(),
		swordID,
		string(inquiry.Interest),
		inquiry.Message,
		inquiry.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("inquiry sword %v: %w", inquiry.SwordID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID id.UserID) ([]*models.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx, listInquiriesQuery, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	out := []*models.Inquiry{}
	for rows.Next() {
		var inq models.Inquiry
		var inquiryID, user, interest string
		var swordID sql.NullString
		if err := rows.Scan(&inquiryID, &user, &swordID, &interest, &inq.Message, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inq.ID = id.InquiryID(inquiryID)
		inq.UserID = id.UserID(user)
		inq.Interest = models.Interest(interest)
		if swordID.Valid {
			sid := id.SwordID(swordID.String)
			inq.SwordID = &sid
		}
		out = append(out, &inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inquiries rows: %w", err)
	}
	return out, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
