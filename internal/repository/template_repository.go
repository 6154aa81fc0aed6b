package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// TemplateRepository отвечает за справочник промпт-шаблонов.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository создаёт экземпляр репозитория.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByID возвращает шаблон по идентификатору.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var t models.Template
	if err := r.db.GetContext(ctx, &t, `SELECT * FROM templates WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template repository: get by id %w", err)
	}

	return &t, nil
}

// List возвращает все шаблоны.
func (r *TemplateRepository) List(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := r.db.SelectContext(ctx, &templates, `SELECT * FROM templates ORDER BY name`); err != nil {
		return nil, fmt.Errorf("template repository: list %w", err)
	}

	return templates, nil
}

// Create создаёт шаблон. Используется только сидером.
func (r *TemplateRepository) Create(ctx context.Context, t *models.Template) error {
	query := `
		INSERT INTO templates (name, industry, description, prompt_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.db.QueryRowxContext(ctx, query, t.Name, t.Industry, t.Description, t.PromptText).Scan(&t.ID); err != nil {
		return fmt.Errorf("template repository: create %w", err)
	}

	return nil
}

// Count возвращает количество шаблонов (для стартового сидинга).
func (r *TemplateRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM templates`); err != nil {
		return 0, fmt.Errorf("template repository: count %w", err)
	}

	return count, nil
}
