package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

// SettingsRepository хранит единственную запись настроек приложения.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository создаёт экземпляр репозитория.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get возвращает настройки или дефолты, если запись ещё не сохранялась.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := r.db.GetContext(ctx, &s, `SELECT * FROM settings WHERE id = $1`, models.SettingsID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings repository: get %w", err)
	}

	return &s, nil
}

// Upsert сохраняет настройки целиком под фиксированным идентификатором.
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	s.ID = models.SettingsID

	query := `
		INSERT INTO settings (id, company_name, default_sender_email, auto_send_on_approval,
			notify_on_proposal_open, notify_on_proposal_click, brevo_polling_enabled,
			brevo_polling_interval, google_doc_template_id, approval_keyword, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			default_sender_email = EXCLUDED.default_sender_email,
			auto_send_on_approval = EXCLUDED.auto_send_on_approval,
			notify_on_proposal_open = EXCLUDED.notify_on_proposal_open,
			notify_on_proposal_click = EXCLUDED.notify_on_proposal_click,
			brevo_polling_enabled = EXCLUDED.brevo_polling_enabled,
			brevo_polling_interval = EXCLUDED.brevo_polling_interval,
			google_doc_template_id = EXCLUDED.google_doc_template_id,
			approval_keyword = EXCLUDED.approval_keyword,
			updated_at = NOW()
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.CompanyName,
		s.DefaultSenderEmail,
		s.AutoSendOnApproval,
		s.NotifyOnProposalOpen,
		s.NotifyOnClick,
		s.BrevoPollingEnabled,
		s.BrevoPollingInterval,
		s.GoogleDocTemplateID,
		s.ApprovalKeyword,
	); err != nil {
		return fmt.Errorf("settings repository: upsert %w", err)
	}

	return nil
}
