package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/proposal-ai-backend/internal/mailer"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

type mockEmailLogRepo struct {
	mock.Mock
}

func (m *mockEmailLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailLog), args.Error(1)
}

func (m *mockEmailLogRepo) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.EmailLog, error) {
	args := m.Called(ctx, proposalID)
	return args.Get(0).([]models.EmailLog), args.Error(1)
}

func (m *mockEmailLogRepo) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmailLogRepo) MarkClicked(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockSentLogStore struct {
	mock.Mock
}

func (m *mockSentLogStore) CreateSentLog(ctx context.Context, log *models.EmailLog) error {
	args := m.Called(ctx, log)
	if args.Error(0) == nil {
		log.SentAt = time.Now().UTC()
	}
	return args.Error(0)
}

type mockSettingsReader struct {
	mock.Mock
}

func (m *mockSettingsReader) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type mockEventNotifier struct {
	mock.Mock
}

func (m *mockEventNotifier) Broadcast(event string, data interface{}) error {
	args := m.Called(event, data)
	return args.Error(0)
}

func sentProposal() *models.Proposal {
	content := "Full proposal text"
	return &models.Proposal{
		ID:         uuid.New(),
		ClientName: "Acme Corp",
		Status:     models.StatusPendingReview,
		Content:    &content,
	}
}

func TestNotificationService_SendProposal_Success(t *testing.T) {
	proposals := new(mockProposalRepo)
	logs := new(mockEmailLogRepo)
	store := new(mockSentLogStore)
	settings := new(mockSettingsReader)
	m := new(mockMailer)
	svc := NewNotificationService(proposals, logs, store, settings, m, "https://api.example.com")
	ctx := context.Background()

	p := sentProposal()
	proposals.On("GetByID", ctx, p.ID).Return(p, nil)
	settings.On("Get", ctx).Return(models.DefaultSettings(), nil)
	m.On("Send", ctx, mock.MatchedBy(func(msg mailer.Message) bool {
		return msg.To == "client@acme.com" && msg.Subject == "Proposal for Acme Corp"
	})).Return("re_123", nil)
	store.On("CreateSentLog", ctx, mock.AnythingOfType("*models.EmailLog")).Return(nil)

	log, err := svc.SendProposal(ctx, p.ID, SendProposalInput{Recipient: "client@acme.com"})

	assert.NoError(t, err)
	assert.NotNil(t, log)
	assert.Equal(t, p.ID, log.ProposalID)
	assert.Equal(t, "client@acme.com", log.Recipient)
	assert.NotNil(t, log.ProviderMessageID)
	assert.Equal(t, "re_123", *log.ProviderMessageID)
}

func TestNotificationService_SendProposal_BadRecipient(t *testing.T) {
	proposals := new(mockProposalRepo)
	svc := NewNotificationService(proposals, new(mockEmailLogRepo), new(mockSentLogStore), new(mockSettingsReader), new(mockMailer), "https://api.example.com")

	_, err := svc.SendProposal(context.Background(), uuid.New(), SendProposalInput{Recipient: "not-an-email"})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	proposals.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestNotificationService_SendProposal_NoContent(t *testing.T) {
	proposals := new(mockProposalRepo)
	m := new(mockMailer)
	svc := NewNotificationService(proposals, new(mockEmailLogRepo), new(mockSentLogStore), new(mockSettingsReader), m, "https://api.example.com")
	ctx := context.Background()

	p := &models.Proposal{ID: uuid.New(), ClientName: "Acme Corp", Status: models.StatusDraft}
	proposals.On("GetByID", ctx, p.ID).Return(p, nil)

	_, err := svc.SendProposal(ctx, p.ID, SendProposalInput{Recipient: "client@acme.com"})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotificationService_SendProposal_ProviderFailure(t *testing.T) {
	proposals := new(mockProposalRepo)
	store := new(mockSentLogStore)
	settings := new(mockSettingsReader)
	m := new(mockMailer)
	svc := NewNotificationService(proposals, new(mockEmailLogRepo), store, settings, m, "https://api.example.com")
	ctx := context.Background()

	p := sentProposal()
	proposals.On("GetByID", ctx, p.ID).Return(p, nil)
	settings.On("Get", ctx).Return(models.DefaultSettings(), nil)
	m.On("Send", ctx, mock.AnythingOfType("mailer.Message")).
		Return("", apperror.New(apperror.ErrCodeUpstreamFailure, "почтовый провайдер недоступен"))

	_, err := svc.SendProposal(ctx, p.ID, SendProposalInput{Recipient: "client@acme.com"})

	assert.Error(t, err)
	store.AssertNotCalled(t, "CreateSentLog", mock.Anything, mock.Anything)
}

func TestNotificationService_RecordOpen_FirstOpenBroadcasts(t *testing.T) {
	proposals := new(mockProposalRepo)
	logs := new(mockEmailLogRepo)
	settings := new(mockSettingsReader)
	hub := new(mockEventNotifier)
	svc := NewNotificationService(proposals, logs, new(mockSentLogStore), settings, new(mockMailer), "https://api.example.com")
	svc.SetHub(hub)
	ctx := context.Background()

	p := sentProposal()
	logID := uuid.New()
	logs.On("MarkOpened", ctx, logID).Return(true, nil)
	settings.On("Get", ctx).Return(models.DefaultSettings(), nil)
	logs.On("GetByID", ctx, logID).Return(&models.EmailLog{ID: logID, ProposalID: p.ID, Recipient: "client@acme.com", Opened: true}, nil)
	proposals.On("GetByID", ctx, p.ID).Return(p, nil)
	hub.On("Broadcast", "proposal.opened", mock.Anything).Return(nil)

	err := svc.RecordOpen(ctx, logID)

	assert.NoError(t, err)
	hub.AssertCalled(t, "Broadcast", "proposal.opened", mock.Anything)
}

func TestNotificationService_RecordOpen_RepeatIsSilent(t *testing.T) {
	logs := new(mockEmailLogRepo)
	hub := new(mockEventNotifier)
	svc := NewNotificationService(new(mockProposalRepo), logs, new(mockSentLogStore), new(mockSettingsReader), new(mockMailer), "https://api.example.com")
	svc.SetHub(hub)
	ctx := context.Background()

	logID := uuid.New()
	logs.On("MarkOpened", ctx, logID).Return(false, nil)

	err := svc.RecordOpen(ctx, logID)

	assert.NoError(t, err)
	hub.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestNotificationService_RecordOpen_UnknownLog(t *testing.T) {
	logs := new(mockEmailLogRepo)
	hub := new(mockEventNotifier)
	svc := NewNotificationService(new(mockProposalRepo), logs, new(mockSentLogStore), new(mockSettingsReader), new(mockMailer), "https://api.example.com")
	svc.SetHub(hub)
	ctx := context.Background()

	logID := uuid.New()
	logs.On("MarkOpened", ctx, logID).Return(false, apperror.ErrEmailLogNotFound)

	err := svc.RecordOpen(ctx, logID)

	assert.True(t, apperror.IsNotFound(err))
	hub.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestNotificationService_RecordClick_DisabledNotification(t *testing.T) {
	logs := new(mockEmailLogRepo)
	settings := new(mockSettingsReader)
	hub := new(mockEventNotifier)
	svc := NewNotificationService(new(mockProposalRepo), logs, new(mockSentLogStore), settings, new(mockMailer), "https://api.example.com")
	svc.SetHub(hub)
	ctx := context.Background()

	quiet := models.DefaultSettings()
	quiet.NotifyOnClick = false

	logID := uuid.New()
	logs.On("MarkClicked", ctx, logID).Return(true, nil)
	settings.On("Get", ctx).Return(quiet, nil)

	err := svc.RecordClick(ctx, logID)

	assert.NoError(t, err)
	hub.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}
