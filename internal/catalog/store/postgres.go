package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"hamon/internal/catalog/models"
	"hamon/internal/sentinel"
	id "hamon/pkg/domain"
)

// PostgresStore persists the catalog in the swords table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const swordColumns = `id, name, name_japanese, category, price, description, craftsman, era, image, specifications, available, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, sword *models.Sword) error {
	if sword == nil {
		return fmt.Errorf("sword is required")
	}
	specs, err := json.Marshal(sword.Specifications)
	if err != nil {
		return fmt.Errorf("encode specifications: %w", err)
	}
	query := `
		INSERT INTO swords (` + swordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(ctx, query,
		sword.ID.String(),
		sword.Name,
		sword.NameJapanese,
		string(sword.Category),
		sword.Price,
		sword.Description,
		sword.Craftsman,
		sword.Era,
		sword.Image,
		specs,
		sword.Available,
		sword.CreatedAt,
		sword.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sword %s: %w", sword.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create sword: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, swordID id.SwordID) (*models.Sword, error) {
	query := `SELECT ` + swordColumns + ` FROM swords WHERE id = $1`
	sword, err := scanSword(s.db.QueryRowContext(ctx, query, swordID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find sword by id: %w", err)
	}
	return sword, nil
}

// List runs the page query and the count query with the same predicate.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	where, args := listPredicate(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swords`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count swords: %w", err)
	}

	column := "created_at"
	if filter.SortBy == models.SortByPrice {
		column = "price"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM swords%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		swordColumns, where, column, direction, direction, len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list swords: %w", err)
	}
	defer rows.Close()

	page := &models.Page{Total: total, Swords: []*models.Sword{}}
	for rows.Next() {
		sword, err := scanSword(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sword: %w", err)
		}
		page.Swords = append(page.Swords, sword)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list swords rows: %w", err)
	}
	return page, nil
}

func listPredicate(filter models.ListFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR name_japanese ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *PostgresStore) Update(ctx context.Context, sword *models.Sword) error {
	if sword == nil {
		return fmt.Errorf("sword is required")
	}
	specs, err := json.Marshal(sword.Specifications)
	if err != nil {
		return fmt.Errorf("encode specifications: %w", err)
	}
	query := `
		UPDATE swords
		SET name = $2, name_japanese = $3, category = $4, price = $5, description = $6,
			craftsman = $7, era = $8, image = $9, specifications = $10, available = $11, updated_at = $12
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		sword.ID.String(),
		sword.Name,
		sword.NameJapanese,
		string(sword.Category),
		sword.Price,
		sword.Description,
		sword.Craftsman,
		sword.Era,
		sword.Image,
		specs,
		sword.Available,
		sword.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sword: %w", err)
	}
	return requireRow(res, "update sword")
}

func (s *PostgresStore) Delete(ctx context.Context, swordID id.SwordID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM swords WHERE id = $1`, swordID.String())
	if err != nil {
		return fmt.Errorf("delete sword: %w", err)
	}
	return requireRow(res, "delete sword")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swords`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count swords: %w", err)
	}
	return count, nil
}

func requireRow(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type swordRow interface {
	Scan(dest ...any) error
}

func scanSword(row swordRow) (*models.Sword, error) {
	var sword models.Sword
	var swordID, category string
	var specs []byte
	if err := row.Scan(
		&swordID,
		&sword.Name,
		&sword.NameJapanese,
		&category,
		&sword.Price,
		&sword.Description,
		&sword.Craftsman,
		&sword.Era,
		&sword.Image,
		&specs,
		&sword.Available,
		&sword.CreatedAt,
		&sword.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sword.ID = id.SwordID(swordID)
	sword.Category = models.Category(category)
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &sword.Specifications); err != nil {
			return nil, fmt.Errorf("decode specifications: %w", err)
		}
	}
	return &sword, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
