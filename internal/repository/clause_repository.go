package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// ClauseRepository отвечает за хранение блоков текста предложений.
type ClauseRepository struct {
	db *sqlx.DB
}

// NewClauseRepository создаёт экземпляр репозитория.
func NewClauseRepository(db *sqlx.DB) *ClauseRepository {
	return &ClauseRepository{db: db}
}

// Create создаёт новый блок.
func (r *ClauseRepository) Create(ctx context.Context, clause *models.Clause) error {
	query := `
		INSERT INTO clauses (title, content, category, is_custom)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		clause.Title,
		clause.Content,
		clause.Category,
		clause.IsCustom,
	).Scan(&clause.ID, &clause.CreatedAt); err != nil {
		return fmt.Errorf("clause repository: create %w", err)
	}

	return nil
}

// GetByID возвращает блок по идентификатору.
func (r *ClauseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Clause, error) {
	var clause models.Clause
	if err := r.db.GetContext(ctx, &clause, `SELECT * FROM clauses WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClauseNotFound
		}
		return nil, fmt.Errorf("clause repository: get by id %w", err)
	}

	return &clause, nil
}

// List возвращает все блоки: встроенные первыми, затем по дате создания.
func (r *ClauseRepository) List(ctx context.Context) ([]models.Clause, error) {
	var clauses []models.Clause
	query := `SELECT * FROM clauses ORDER BY is_custom, created_at`
	if err := r.db.SelectContext(ctx, &clauses, query); err != nil {
		return nil, fmt.Errorf("clause repository: list %w", err)
	}

	return clauses, nil
}

// ListByIDs возвращает блоки по списку идентификаторов (для сборки промпта).
func (r *ClauseRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Clause, error) {
	if len(ids) == 0 {
		return []models.Clause{}, nil
	}

	var clauses []models.Clause
	// Идентификаторы приходят строками из тела запроса, приводим массив к uuid.
	query := `SELECT * FROM clauses WHERE id = ANY($1::uuid[]) ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &clauses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("clause repository: list by ids %w", err)
	}

	return clauses, nil
}

// Delete удаляет блок.
func (r *ClauseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clauses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clause repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("clause repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return apperror.ErrClauseNotFound
	}

	return nil
}

// Count возвращает количество блоков (для стартового сидинга).
func (r *ClauseRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clauses`); err != nil {
		return 0, fmt.Errorf("clause repository: count %w", err)
	}

	return count, nil
}
