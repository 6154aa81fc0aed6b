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

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, s *models.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func TestSettingsService_Update_EmptyFieldsAllowed(t *testing.T) {
	repo := new(mockSettingsRepo)
	svc := NewSettingsService(repo)
	ctx := context.Background()

	repo.On("Upsert", ctx, mock.AnythingOfType("*models.Settings")).Return(nil)

	// Сброс на дефолтные значения приходит с пустыми company_name и email.
	saved, err := svc.Update(ctx, models.Settings{
		CompanyName:          "",
		DefaultSenderEmail:   "",
		BrevoPollingInterval: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.SettingsID, saved.ID)
	repo.AssertExpectations(t)
}

func TestSettingsService_Update_BadEmail(t *testing.T) {
	repo := new(mockSettingsRepo)
	svc := NewSettingsService(repo)

	_, err := svc.Update(context.Background(), models.Settings{
		DefaultSenderEmail:   "not-an-email",
		BrevoPollingInterval: 5,
	})

	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSettingsService_Update_BadPollingInterval(t *testing.T) {
	repo := new(mockSettingsRepo)
	svc := NewSettingsService(repo)

	_, err := svc.Update(context.Background(), models.Settings{
		DefaultSenderEmail:   "sales@example.com",
		BrevoPollingInterval: 0,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestSettingsService_Update_ForcesSingletonID(t *testing.T) {
	repo := new(mockSettingsRepo)
	svc := NewSettingsService(repo)
	ctx := context.Background()

	repo.On("Upsert", ctx, mock.MatchedBy(func(s *models.Settings) bool {
		return s.ID == models.SettingsID
	})).Return(nil)

	saved, err := svc.Update(ctx, models.Settings{
		ID:                   uuid.New(),
		CompanyName:          "Acme Corp",
		DefaultSenderEmail:   "sales@example.com",
		BrevoPollingInterval: 10,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.SettingsID, saved.ID)
	repo.AssertExpectations(t)
}
