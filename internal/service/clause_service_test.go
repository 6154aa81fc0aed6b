package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

type mockClauseRepo struct {
	mock.Mock
}

func (m *mockClauseRepo) Create(ctx context.Context, clause *models.Clause) error {
	args := m.Called(ctx, clause)
	if args.Error(0) == nil {
		clause.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockClauseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Clause, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clause), args.Error(1)
}

func (m *mockClauseRepo) List(ctx context.Context) ([]models.Clause, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Clause), args.Error(1)
}

func (m *mockClauseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestClauseService_Create_AlwaysCustom(t *testing.T) {
	repo := new(mockClauseRepo)
	svc := NewClauseService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Clause")).Return(nil)

	clause, err := svc.Create(ctx, CreateClauseInput{
		Title:    "Force Majeure",
		Content:  "Neither party shall be liable...",
		Category: models.CategoryLegal,
	})

	assert.NoError(t, err)
	assert.True(t, clause.IsCustom)
}

func TestClauseService_Create_InvalidCategory(t *testing.T) {
	repo := new(mockClauseRepo)
	svc := NewClauseService(repo)

	_, err := svc.Create(context.Background(), CreateClauseInput{
		Title:    "Force Majeure",
		Content:  "Neither party shall be liable...",
		Category: "Misc",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClauseService_Delete_BuiltinProtected(t *testing.T) {
	repo := new(mockClauseRepo)
	svc := NewClauseService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&models.Clause{ID: id, Title: "Payment Terms", IsCustom: false}, nil)

	err := svc.Delete(ctx, id)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestClauseService_Delete_Custom(t *testing.T) {
	repo := new(mockClauseRepo)
	svc := NewClauseService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&models.Clause{ID: id, IsCustom: true}, nil)
	repo.On("Delete", ctx, id).Return(nil)

	assert.NoError(t, svc.Delete(ctx, id))
}

func TestClauseService_Delete_NotFound(t *testing.T) {
	repo := new(mockClauseRepo)
	svc := NewClauseService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, apperror.ErrClauseNotFound)

	err := svc.Delete(ctx, id)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
