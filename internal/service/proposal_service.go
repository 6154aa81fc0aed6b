package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/ai"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/validation"
)

// ProposalRepository описывает взаимодействие сервиса с хранилищем предложений.
type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	List(ctx context.Context, status *models.ProposalStatus) ([]models.Proposal, error)
	Update(ctx context.Context, p *models.Proposal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClauseReader описывает минимальный контракт для чтения блоков.
type ClauseReader interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Clause, error)
}

// TemplateReader описывает минимальный контракт для чтения шаблонов.
type TemplateReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// ProposalGenerator описывает упрощённый контракт с AI подсистемой.
type ProposalGenerator interface {
	GenerateProposal(ctx context.Context, prompt string) (string, error)
}

// ProposalService содержит бизнес-логику работы с предложениями.
type ProposalService struct {
	repo         ProposalRepository
	clauses      ClauseReader
	templates    TemplateReader
	generator    ProposalGenerator
	flowEnforced bool
}

// NewProposalService создаёт новый сервис предложений.
func NewProposalService(repo ProposalRepository, clauses ClauseReader, templates TemplateReader, generator ProposalGenerator, flowEnforced bool) *ProposalService {
	return &ProposalService{
		repo:         repo,
		clauses:      clauses,
		templates:    templates,
		generator:    generator,
		flowEnforced: flowEnforced,
	}
}

// CreateProposalInput описывает входные данные для создания предложения.
type CreateProposalInput struct {
	ClientName         string   `json:"client_name"`
	ProjectDescription string   `json:"project_description"`
	BudgetRange        string   `json:"budget_range"`
	Timeline           string   `json:"timeline"`
	Content            *string  `json:"content,omitempty"`
	DealValue          *float64 `json:"deal_value,omitempty"`
	SelectedClauses    []string `json:"selected_clauses,omitempty"`
}

// GenerateInput описывает входные данные для генерации текста предложения.
type GenerateInput struct {
	ClientName             string   `json:"client_name"`
	ProjectDescription     string   `json:"project_description"`
	BudgetRange            string   `json:"budget_range"`
	Timeline               string   `json:"timeline"`
	AdditionalRequirements string   `json:"additional_requirements,omitempty"`
	SelectedClauses        []string `json:"selected_clauses,omitempty"`
	TemplateID             *string  `json:"template_id,omitempty"`
	DocumentText           string   `json:"document_text,omitempty"`
}

// Create создаёт предложение в статусе Draft и возвращает его.
func (s *ProposalService) Create(ctx context.Context, in CreateProposalInput) (*models.Proposal, error) {
	if err := s.validateRequired(in.ClientName, in.ProjectDescription, in.BudgetRange, in.Timeline); err != nil {
		return nil, err
	}
	if err := validation.ValidateDealValue(in.DealValue); err != nil {
		return nil, err
	}

	selected := in.SelectedClauses
	if selected == nil {
		selected = []string{}
	}

	p := &models.Proposal{
		ClientName:         in.ClientName,
		ProjectDescription: in.ProjectDescription,
		BudgetRange:        in.BudgetRange,
		Timeline:           in.Timeline,
		Status:             models.StatusDraft,
		Content:            in.Content,
		DealValue:          in.DealValue,
		SelectedClauses:    selected,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("proposal service: создание предложения: %w", err)
	}
	return p, nil
}

// Get возвращает предложение по идентификатору.
func (s *ProposalService) Get(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает предложения, опционально отфильтрованные по статусу.
func (s *ProposalService) List(ctx context.Context, status *models.ProposalStatus) ([]models.Proposal, error) {
	if status != nil && !status.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимый статус %q", *status))
	}
	return s.repo.List(ctx, status)
}

// Update применяет частичное обновление: nil-поля не меняются.
// При первом переходе в Accepted фиксируется accepted_at; повторные
// обновления со статусом Accepted отметку не трогают.
func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, upd models.ProposalUpdate) (*models.Proposal, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.ClientName != nil {
		if err := validation.ValidateNonEmpty("client_name", *upd.ClientName); err != nil {
			return nil, err
		}
		p.ClientName = *upd.ClientName
	}
	if upd.ProjectDescription != nil {
		if err := validation.ValidateNonEmpty("project_description", *upd.ProjectDescription); err != nil {
			return nil, err
		}
		p.ProjectDescription = *upd.ProjectDescription
	}
	if upd.BudgetRange != nil {
		p.BudgetRange = *upd.BudgetRange
	}
	if upd.Timeline != nil {
		p.Timeline = *upd.Timeline
	}
	if upd.Content != nil {
		p.Content = upd.Content
	}
	if upd.DealValue != nil {
		if err := validation.ValidateDealValue(upd.DealValue); err != nil {
			return nil, err
		}
		p.DealValue = upd.DealValue
	}
	if upd.SelectedClauses != nil {
		p.SelectedClauses = *upd.SelectedClauses
	}
	if upd.Status != nil {
		if err := s.applyStatus(p, *upd.Status); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete удаляет предложение.
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Generate собирает промпт из данных формы, выбранных блоков и шаблона
// и возвращает сгенерированный текст. Само предложение не сохраняется:
// решение о сохранении принимает вызывающая сторона.
func (s *ProposalService) Generate(ctx context.Context, in GenerateInput) (string, error) {
	if err := s.validateRequired(in.ClientName, in.ProjectDescription, in.BudgetRange, in.Timeline); err != nil {
		return "", err
	}

	input := ai.PromptInput{
		ClientName:             in.ClientName,
		ProjectDescription:     in.ProjectDescription,
		BudgetRange:            in.BudgetRange,
		Timeline:               in.Timeline,
		AdditionalRequirements: in.AdditionalRequirements,
		DocumentText:           in.DocumentText,
	}

	if len(in.SelectedClauses) > 0 {
		for _, rawID := range in.SelectedClauses {
			if _, err := uuid.Parse(rawID); err != nil {
				return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("некорректный идентификатор блока %q", rawID))
			}
		}
		clauses, err := s.clauses.ListByIDs(ctx, in.SelectedClauses)
		if err != nil {
			return "", fmt.Errorf("proposal service: загрузка блоков: %w", err)
		}
		input.Clauses = clauses
	}

	if in.TemplateID != nil && *in.TemplateID != "" {
		templateID, err := uuid.Parse(*in.TemplateID)
		if err != nil {
			return "", apperror.New(apperror.ErrCodeValidation, "некорректный идентификатор шаблона")
		}
		tmpl, err := s.templates.GetByID(ctx, templateID)
		if err != nil {
			return "", err
		}
		input.Template = tmpl
	}

	content, err := s.generator.GenerateProposal(ctx, ai.ComposePrompt(input))
	if err != nil {
		return "", err
	}
	return content, nil
}

func (s *ProposalService) validateRequired(clientName, projectDescription, budgetRange, timeline string) error {
	if err := validation.ValidateNonEmpty("client_name", clientName); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("project_description", projectDescription); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("budget_range", budgetRange); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("timeline", timeline); err != nil {
		return err
	}
	return validation.ValidateLength("client_name", clientName, 1, validation.MaxClientNameLength)
}

func (s *ProposalService) applyStatus(p *models.Proposal, next models.ProposalStatus) error {
	if !next.Valid() {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимый статус %q", next))
	}
	if s.flowEnforced && !models.CanTransition(p.Status, next) {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("переход из %q в %q запрещён", p.Status, next))
	}
	p.Status = next
	if next == models.StatusAccepted && p.AcceptedAt == nil {
		now := time.Now().UTC()
		p.AcceptedAt = &now
	}
	return nil
}
