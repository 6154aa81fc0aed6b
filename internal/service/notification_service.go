package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/mailer"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/validation"
)

// Mailer описывает контракт с почтовым провайдером.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// EmailLogRepository описывает работу с журналом отправок.
type EmailLogRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error)
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.EmailLog, error)
	MarkOpened(ctx context.Context, id uuid.UUID) (bool, error)
	MarkClicked(ctx context.Context, id uuid.UUID) (bool, error)
}

// SentLogStore описывает транзакционную запись результата отправки.
type SentLogStore interface {
	CreateSentLog(ctx context.Context, log *models.EmailLog) error
}

// SettingsReader описывает минимальный контракт для чтения настроек.
type SettingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// EventNotifier интерфейс для рассылки событий панели через WebSocket.
type EventNotifier interface {
	Broadcast(event string, data interface{}) error
}

// NotificationService отвечает за отправку предложений по почте
// и обработку трекинга открытий и кликов.
type NotificationService struct {
	proposals     ProposalRepository
	logs          EmailLogRepository
	store         SentLogStore
	settings      SettingsReader
	mailer        Mailer
	hub           EventNotifier
	publicBaseURL string
}

// NewNotificationService создаёт новый сервис отправки.
func NewNotificationService(proposals ProposalRepository, logs EmailLogRepository, store SentLogStore, settings SettingsReader, m Mailer, publicBaseURL string) *NotificationService {
	return &NotificationService{
		proposals:     proposals,
		logs:          logs,
		store:         store,
		settings:      settings,
		mailer:        m,
		publicBaseURL: publicBaseURL,
	}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *NotificationService) SetHub(hub EventNotifier) {
	s.hub = hub
}

// SendProposalInput описывает входные данные для отправки предложения.
type SendProposalInput struct {
	Recipient     string `json:"recipient_email"`
	CustomMessage string `json:"custom_message,omitempty"`
}

// SendProposal отправляет предложение по почте и атомарно фиксирует
// результат: запись журнала и перевод предложения в Sent происходят в
// одной транзакции. Если провайдер вернул ошибку, состояние не меняется.
func (s *NotificationService) SendProposal(ctx context.Context, proposalID uuid.UUID, in SendProposalInput) (*models.EmailLog, error) {
	if err := validation.ValidateEmail(in.Recipient); err != nil {
		return nil, err
	}

	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.Content == nil || *p.Content == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "у предложения ещё нет текста, сначала сгенерируйте или заполните его")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification service: чтение настроек: %w", err)
	}

	// Идентификатор записи журнала нужен заранее: он входит в трекинговые
	// ссылки внутри письма.
	logID := uuid.New()
	openURL := fmt.Sprintf("%s/api/track-open/%s", s.publicBaseURL, logID)
	clickURL := fmt.Sprintf("%s/api/track-click/%s", s.publicBaseURL, logID)

	subject := fmt.Sprintf("Proposal for %s", p.ClientName)
	msg := mailer.Message{
		From:    fmt.Sprintf("%s <%s>", settings.CompanyName, settings.DefaultSenderEmail),
		To:      in.Recipient,
		Subject: subject,
		HTML:    mailer.RenderProposalHTML(*p.Content, in.CustomMessage, settings.CompanyName, openURL, clickURL),
	}

	providerID, err := s.mailer.Send(ctx, msg)
	if err != nil {
		return nil, err
	}

	log := &models.EmailLog{
		ID:         logID,
		ProposalID: proposalID,
		Recipient:  in.Recipient,
		Subject:    subject,
	}
	if providerID != "" {
		log.ProviderMessageID = &providerID
	}
	if err := s.store.CreateSentLog(ctx, log); err != nil {
		return nil, fmt.Errorf("notification service: запись журнала отправки: %w", err)
	}
	return log, nil
}

// GetLog возвращает запись журнала по идентификатору.
func (s *NotificationService) GetLog(ctx context.Context, logID uuid.UUID) (*models.EmailLog, error) {
	return s.logs.GetByID(ctx, logID)
}

// ListLogs возвращает журнал отправок предложения, новые записи первыми.
func (s *NotificationService) ListLogs(ctx context.Context, proposalID uuid.UUID) ([]models.EmailLog, error) {
	if _, err := s.proposals.GetByID(ctx, proposalID); err != nil {
		return nil, err
	}
	return s.logs.ListByProposal(ctx, proposalID)
}

// RecordOpen отмечает открытие письма. Повторные открытия не меняют
// отметку времени, событие уходит только при первом открытии.
func (s *NotificationService) RecordOpen(ctx context.Context, logID uuid.UUID) error {
	first, err := s.logs.MarkOpened(ctx, logID)
	if err != nil {
		return err
	}
	if first {
		s.notify(ctx, logID, "proposal.opened", func(st *models.Settings) bool { return st.NotifyOnProposalOpen })
	}
	return nil
}

// RecordClick отмечает клик по ссылке внутри письма.
func (s *NotificationService) RecordClick(ctx context.Context, logID uuid.UUID) error {
	first, err := s.logs.MarkClicked(ctx, logID)
	if err != nil {
		return err
	}
	if first {
		s.notify(ctx, logID, "proposal.clicked", func(st *models.Settings) bool { return st.NotifyOnClick })
	}
	return nil
}

func (s *NotificationService) notify(ctx context.Context, logID uuid.UUID, event string, enabled func(*models.Settings) bool) {
	if s.hub == nil {
		return
	}
	settings, err := s.settings.Get(ctx)
	if err != nil || !enabled(settings) {
		return
	}

	log, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return
	}
	payload := map[string]interface{}{
		"email_log_id": log.ID,
		"proposal_id":  log.ProposalID,
		"recipient":    log.Recipient,
	}
	if p, err := s.proposals.GetByID(ctx, log.ProposalID); err == nil {
		payload["client_name"] = p.ClientName
		payload["status"] = p.Status
		payload["status_color"] = p.Status.BadgeColor()
	}
	if err := s.hub.Broadcast(event, payload); err != nil {
		logger.WithComponent("notification").Warnf("не удалось разослать событие %s: %v", event, err)
	}
}
