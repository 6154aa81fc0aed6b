package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/crm"
	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/validation"
)

// DealRepository описывает взаимодействие сервиса с хранилищем сделок.
type DealRepository interface {
	Upsert(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context) ([]models.Deal, error)
	ListPending(ctx context.Context, proposalStage string) ([]models.Deal, error)
	SetProcessingStatus(ctx context.Context, id uuid.UUID, status models.DealProcessingStatus) error
	LinkProposal(ctx context.Context, id uuid.UUID, proposalID uuid.UUID) error
}

// ProposalSender отправляет готовое предложение по почте.
type ProposalSender interface {
	SendProposal(ctx context.Context, proposalID uuid.UUID, in SendProposalInput) (*models.EmailLog, error)
}

// CRMService синхронизирует сделки Brevo с локальным зеркалом
// и связывает их с предложениями.
type CRMService struct {
	deals         DealRepository
	settings      SettingsReader
	sender        ProposalSender
	proposalStage string
}

// NewCRMService создаёт новый сервис синхронизации CRM.
func NewCRMService(deals DealRepository, settings SettingsReader, sender ProposalSender, proposalStage string) *CRMService {
	return &CRMService{
		deals:         deals,
		settings:      settings,
		sender:        sender,
		proposalStage: proposalStage,
	}
}

// IngestDeal сохраняет нормализованную сделку из поллера или вебхука.
// Локальные поля (processing_status, proposal_id) при повторном upsert
// не перетираются. Если включена автоотправка и стадия сделки содержит
// ключевое слово одобрения, привязанное предложение уходит клиенту.
func (s *CRMService) IngestDeal(ctx context.Context, payload crm.DealPayload) (*models.Deal, error) {
	if payload.ExternalID == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "у сделки нет внешнего идентификатора")
	}

	deal := &models.Deal{
		ExternalID:       payload.ExternalID,
		Name:             payload.Name,
		Company:          payload.Company,
		ContactEmail:     payload.ContactEmail,
		Value:            payload.Value,
		Stage:            payload.Stage,
		ProcessingStatus: models.DealNew,
		RawPayload:       payload.Raw,
	}
	if err := s.deals.Upsert(ctx, deal); err != nil {
		return nil, fmt.Errorf("crm service: сохранение сделки: %w", err)
	}

	s.maybeAutoSend(ctx, deal)
	return deal, nil
}

// ListDeals возвращает все локальные сделки.
func (s *CRMService) ListDeals(ctx context.Context) ([]models.Deal, error) {
	return s.deals.List(ctx)
}

// ListPending возвращает сделки на стадии предложения без привязанного
// предложения: очередь работы менеджера.
func (s *CRMService) ListPending(ctx context.Context) ([]models.Deal, error) {
	return s.deals.ListPending(ctx, s.proposalStage)
}

// DealUpdate содержит частичное обновление локальной сделки.
type DealUpdate struct {
	ProcessingStatus *models.DealProcessingStatus `json:"processing_status,omitempty"`
	ProposalID       *uuid.UUID                   `json:"proposal_id,omitempty"`
}

// UpdateDeal меняет локальный статус обработки и/или привязку предложения.
func (s *CRMService) UpdateDeal(ctx context.Context, id uuid.UUID, upd DealUpdate) (*models.Deal, error) {
	if _, err := s.deals.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if upd.ProcessingStatus != nil {
		switch *upd.ProcessingStatus {
		case models.DealNew, models.DealApproved, models.DealProcessed:
		default:
			return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимый статус обработки %q", *upd.ProcessingStatus))
		}
		if err := s.deals.SetProcessingStatus(ctx, id, *upd.ProcessingStatus); err != nil {
			return nil, err
		}
	}
	if upd.ProposalID != nil {
		if err := s.deals.LinkProposal(ctx, id, *upd.ProposalID); err != nil {
			return nil, err
		}
	}
	return s.deals.GetByID(ctx, id)
}

// maybeAutoSend реагирует на ключевое слово одобрения в стадии сделки:
// сделка с привязанным предложением отправляется клиенту, сделка без
// привязки лишь помечается одобренной. Ошибки автоотправки не прерывают
// синхронизацию: сделка уже сохранена.
func (s *CRMService) maybeAutoSend(ctx context.Context, deal *models.Deal) {
	if s.sender == nil || deal.ProcessingStatus == models.DealProcessed {
		return
	}

	settings, err := s.settings.Get(ctx)
	if err != nil || !settings.AutoSendOnApproval || settings.ApprovalKeyword == "" {
		return
	}
	if !strings.Contains(strings.ToLower(deal.Stage), strings.ToLower(settings.ApprovalKeyword)) {
		return
	}

	log := logger.WithComponent("crm")

	if deal.ProposalID == nil {
		if deal.ProcessingStatus != models.DealNew {
			return
		}
		if err := s.deals.SetProcessingStatus(ctx, deal.ID, models.DealApproved); err != nil {
			log.Errorf("не удалось отметить сделку %s одобренной: %v", deal.ExternalID, err)
			return
		}
		deal.ProcessingStatus = models.DealApproved
		return
	}

	if deal.ContactEmail == nil || validation.ValidateEmail(*deal.ContactEmail) != nil {
		return
	}
	if _, err := s.sender.SendProposal(ctx, *deal.ProposalID, SendProposalInput{Recipient: *deal.ContactEmail}); err != nil {
		log.Errorf("автоотправка предложения по сделке %s не удалась: %v", deal.ExternalID, err)
		return
	}
	if err := s.deals.SetProcessingStatus(ctx, deal.ID, models.DealProcessed); err != nil {
		log.Errorf("не удалось отметить сделку %s обработанной: %v", deal.ExternalID, err)
		return
	}
	deal.ProcessingStatus = models.DealProcessed
}
