package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/validation"
)

// ClauseRepository описывает взаимодействие сервиса с хранилищем блоков.
type ClauseRepository interface {
	Create(ctx context.Context, clause *models.Clause) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clause, error)
	List(ctx context.Context) ([]models.Clause, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClauseService содержит бизнес-логику работы с библиотекой блоков.
type ClauseService struct {
	repo ClauseRepository
}

// NewClauseService создаёт новый сервис блоков.
func NewClauseService(repo ClauseRepository) *ClauseService {
	return &ClauseService{repo: repo}
}

// CreateClauseInput описывает входные данные для создания блока.
type CreateClauseInput struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Category models.ClauseCategory `json:"category"`
}

// List возвращает все блоки: сначала встроенные, затем пользовательские.
func (s *ClauseService) List(ctx context.Context) ([]models.Clause, error) {
	return s.repo.List(ctx)
}

// Create создаёт пользовательский блок. Блоки, созданные через API,
// всегда помечаются is_custom.
func (s *ClauseService) Create(ctx context.Context, in CreateClauseInput) (*models.Clause, error) {
	if err := validation.ValidateNonEmpty("title", in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonEmpty("content", in.Content); err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимая категория %q", in.Category))
	}

	clause := &models.Clause{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		IsCustom: true,
	}
	if err := s.repo.Create(ctx, clause); err != nil {
		return nil, fmt.Errorf("clause service: создание блока: %w", err)
	}
	return clause, nil
}

// Delete удаляет пользовательский блок. Встроенные блоки защищены.
func (s *ClauseService) Delete(ctx context.Context, id uuid.UUID) error {
	clause, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !clause.IsCustom {
		return apperror.ErrClauseProtected
	}
	return s.repo.Delete(ctx, id)
}
