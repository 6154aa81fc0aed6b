package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/repository"
)

// SeedService наполняет пустую базу стартовой библиотекой блоков
// и отраслевыми шаблонами. Повторный запуск ничего не делает.
type SeedService struct {
	clauseRepo   *repository.ClauseRepository
	templateRepo *repository.TemplateRepository
}

// NewSeedService создаёт новый сервис начальных данных.
func NewSeedService(clauseRepo *repository.ClauseRepository, templateRepo *repository.TemplateRepository) *SeedService {
	return &SeedService{
		clauseRepo:   clauseRepo,
		templateRepo: templateRepo,
	}
}

// Seed заполняет библиотеку блоков и шаблоны, если они пусты.
func (s *SeedService) Seed(ctx context.Context) error {
	log := logger.WithComponent("seed")

	count, err := s.clauseRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed service: подсчёт блоков: %w", err)
	}
	if count == 0 {
		for _, clause := range defaultClauses() {
			c := clause
			if err := s.clauseRepo.Create(ctx, &c); err != nil {
				return fmt.Errorf("seed service: создание блока %q: %w", c.Title, err)
			}
		}
		log.Info("библиотека блоков заполнена стартовыми данными")
	}

	count, err = s.templateRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed service: подсчёт шаблонов: %w", err)
	}
	if count == 0 {
		for _, tmpl := range defaultTemplates() {
			t := tmpl
			if err := s.templateRepo.Create(ctx, &t); err != nil {
				return fmt.Errorf("seed service: создание шаблона %q: %w", t.Name, err)
			}
		}
		log.Info("отраслевые шаблоны заполнены стартовыми данными")
	}

	return nil
}

func defaultClauses() []models.Clause {
	return []models.Clause{
		{
			Title:    "Payment Terms",
			Content:  "Payment shall be made in accordance with the agreed schedule. A 50% deposit is required upon signing, with the remaining 50% due upon project completion. Late payments may incur a 2% monthly interest charge.",
			Category: models.CategoryFinancial,
		},
		{
			Title:    "Intellectual Property Rights",
			Content:  "Upon full payment, all intellectual property rights for the deliverables will be transferred to the Client. The Service Provider retains the right to use the project in their portfolio and marketing materials.",
			Category: models.CategoryLegal,
		},
		{
			Title:    "Confidentiality",
			Content:  "Both parties agree to maintain confidentiality of all proprietary information shared during the course of this project. This obligation shall survive the termination of this agreement for a period of 5 years.",
			Category: models.CategoryLegal,
		},
		{
			Title:    "Warranty and Support",
			Content:  "The Service Provider warrants that all deliverables will be free from defects for a period of 90 days following delivery. Support and maintenance services are available at an additional cost as outlined in a separate agreement.",
			Category: models.CategoryService,
		},
		{
			Title:    "Termination Clause",
			Content:  "Either party may terminate this agreement with 30 days written notice. In the event of termination, the Client shall pay for all work completed up to the termination date. The Service Provider will deliver all completed work upon receipt of payment.",
			Category: models.CategoryLegal,
		},
		{
			Title:    "Scope Change Management",
			Content:  "Any changes to the project scope must be documented and agreed upon in writing by both parties. Additional work beyond the original scope will be billed at the agreed hourly rate or as a separate project phase.",
			Category: models.CategoryProjectManagement,
		},
	}
}

func defaultTemplates() []models.Template {
	return []models.Template{
		{
			Name:        "Software Development",
			Industry:    "Technology",
			Description: "Предложения по заказной разработке ПО и интеграциям.",
			PromptText:  "Emphasize technical expertise, agile delivery in iterative milestones, code quality practices and post-launch support. Include a clear breakdown of development phases.",
		},
		{
			Name:        "Marketing Campaign",
			Industry:    "Marketing",
			Description: "Предложения по маркетинговым кампаниям и продвижению.",
			PromptText:  "Focus on measurable outcomes: reach, conversion and ROI. Describe the campaign strategy, channels and reporting cadence in business language.",
		},
		{
			Name:        "Design Services",
			Industry:    "Design",
			Description: "Предложения по брендингу и дизайну интерфейсов.",
			PromptText:  "Highlight the creative process, number of concepts and revision rounds, and how the design system will be handed off to the client's team.",
		},
		{
			Name:        "Business Consulting",
			Industry:    "Consulting",
			Description: "Предложения по управленческому консалтингу.",
			PromptText:  "Use a formal tone. Structure the engagement around discovery, analysis and recommendations, and state the expected business impact of each phase.",
		},
	}
}
