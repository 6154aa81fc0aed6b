package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/validation"
)

// SettingsRepository описывает хранилище единственной записи настроек.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, s *models.Settings) error
}

// SettingsService отвечает за настройки приложения.
type SettingsService struct {
	repo SettingsRepository
}

// NewSettingsService создаёт новый сервис настроек.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get возвращает текущие настройки; для нового развёртывания — дефолтные.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

// Update сохраняет настройки целиком и возвращает сохранённую запись.
func (s *SettingsService) Update(ctx context.Context, in models.Settings) (*models.Settings, error) {
	// Пустые название компании и адрес отправителя допустимы:
	// фронтенд сбрасывает настройки на дефолтные именно таким запросом.
	if in.DefaultSenderEmail != "" {
		if err := validation.ValidateEmail(in.DefaultSenderEmail); err != nil {
			return nil, err
		}
	}
	if in.BrevoPollingInterval <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "интервал поллинга должен быть положительным числом минут")
	}

	in.ID = models.SettingsID
	if err := s.repo.Upsert(ctx, &in); err != nil {
		return nil, fmt.Errorf("settings service: сохранение настроек: %w", err)
	}
	return &in, nil
}
