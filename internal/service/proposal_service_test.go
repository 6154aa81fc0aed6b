package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

type mockProposalRepo struct {
	mock.Mock
}

func (m *mockProposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = uuid.New()
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
	}
	return args.Error(0)
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) List(ctx context.Context, status *models.ProposalStatus) ([]models.Proposal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) Update(ctx context.Context, p *models.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProposalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProposalRepo) CountByStatus(ctx context.Context) (map[models.ProposalStatus]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[models.ProposalStatus]int), args.Error(1)
}

type mockClauseReader struct {
	mock.Mock
}

func (m *mockClauseReader) ListByIDs(ctx context.Context, ids []string) ([]models.Clause, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Clause), args.Error(1)
}

type mockTemplateReader struct {
	mock.Mock
}

func (m *mockTemplateReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateProposal(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newProposalService(repo *mockProposalRepo, clauses *mockClauseReader, templates *mockTemplateReader, gen *mockGenerator) *ProposalService {
	return NewProposalService(repo, clauses, templates, gen, false)
}

func TestProposalService_Create_Success(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator))
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	p, err := svc.Create(ctx, CreateProposalInput{
		ClientName:         "Acme Corp",
		ProjectDescription: "Редизайн интернет-магазина",
		BudgetRange:        "$10,000 - $20,000",
		Timeline:           "3 months",
	})

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, "Acme Corp", p.ClientName)
	assert.NotNil(t, p.SelectedClauses)
	assert.Empty(t, p.SelectedClauses)
	assert.Nil(t, p.AcceptedAt)
}

func TestProposalService_Create_MissingField(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator))

	_, err := svc.Create(context.Background(), CreateProposalInput{
		ClientName:  "Acme Corp",
		BudgetRange: "$10,000",
		Timeline:    "3 months",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposalService_Update_StampsAcceptedOnce(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator))
	ctx := context.Background()

	id := uuid.New()
	existing := &models.Proposal{
		ID:        id,
		Status:    models.StatusSent,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	repo.On("GetByID", ctx, id).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	accepted := models.StatusAccepted
	p, err := svc.Update(ctx, id, models.ProposalUpdate{Status: &accepted})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, p.Status)
	assert.NotNil(t, p.AcceptedAt)

	// Повторное выставление Accepted не двигает отметку времени.
	firstStamp := *p.AcceptedAt
	p2, err := svc.Update(ctx, id, models.ProposalUpdate{Status: &accepted})

	assert.NoError(t, err)
	assert.Equal(t, firstStamp, *p2.AcceptedAt)
}

func TestProposalService_Update_InvalidStatus(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator))
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&models.Proposal{ID: id, Status: models.StatusDraft}, nil)

	bad := models.ProposalStatus("Shipped")
	_, err := svc.Update(ctx, id, models.ProposalUpdate{Status: &bad})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProposalService_Update_EnforcedTransition(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := NewProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator), true)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&models.Proposal{ID: id, Status: models.StatusAccepted}, nil)

	draft := models.StatusDraft
	_, err := svc.Update(ctx, id, models.ProposalUpdate{Status: &draft})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_Update_NotFound(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), new(mockGenerator))
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, apperror.ErrProposalNotFound)

	name := "Acme Corp"
	_, err := svc.Update(ctx, id, models.ProposalUpdate{ClientName: &name})

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProposalService_Generate_CollectsClausesAndTemplate(t *testing.T) {
	repo := new(mockProposalRepo)
	clauses := new(mockClauseReader)
	templates := new(mockTemplateReader)
	gen := new(mockGenerator)
	svc := newProposalService(repo, clauses, templates, gen)
	ctx := context.Background()

	clauseID := uuid.New().String()
	templateID := uuid.New()
	templateIDStr := templateID.String()

	clauses.On("ListByIDs", ctx, []string{clauseID}).Return([]models.Clause{
		{Title: "Payment Terms", Content: "50% deposit"},
	}, nil)
	templates.On("GetByID", ctx, templateID).Return(&models.Template{
		ID:         templateID,
		Industry:   "Technology",
		PromptText: "Emphasize technical expertise.",
	}, nil)
	gen.On("GenerateProposal", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Payment Terms") && strings.Contains(prompt, "Technology")
	})).Return("Generated proposal text", nil)

	content, err := svc.Generate(ctx, GenerateInput{
		ClientName:         "Acme Corp",
		ProjectDescription: "Интеграция платёжной системы",
		BudgetRange:        "$5,000",
		Timeline:           "1 month",
		SelectedClauses:    []string{clauseID},
		TemplateID:         &templateIDStr,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Generated proposal text", content)
}

func TestProposalService_Generate_UpstreamTimeout(t *testing.T) {
	repo := new(mockProposalRepo)
	gen := new(mockGenerator)
	svc := newProposalService(repo, new(mockClauseReader), new(mockTemplateReader), gen)
	ctx := context.Background()

	timeoutErr := apperror.New(apperror.ErrCodeUpstreamTimeout, "генерация не уложилась в отведённое время")
	gen.On("GenerateProposal", ctx, mock.AnythingOfType("string")).Return("", timeoutErr)

	_, err := svc.Generate(ctx, GenerateInput{
		ClientName:         "Acme Corp",
		ProjectDescription: "Описание",
		BudgetRange:        "$5,000",
		Timeline:           "1 month",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsUpstreamTimeout(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
