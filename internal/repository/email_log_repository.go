package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// EmailLogRepository отвечает за журнал отправленных писем.
type EmailLogRepository struct {
	db *sqlx.DB
}

// NewEmailLogRepository создаёт экземпляр репозитория.
func NewEmailLogRepository(db *sqlx.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// CreateTx создаёт запись журнала внутри внешней транзакции.
// Идентификатор задаёт вызывающий: он уже зашит в трекинг-ссылки письма.
func (r *EmailLogRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, log *models.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, proposal_id, recipient, subject, provider_message_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING sent_at
	`

	if err := tx.QueryRowxContext(
		ctx,
		query,
		log.ID,
		log.ProposalID,
		log.Recipient,
		log.Subject,
		log.ProviderMessageID,
	).Scan(&log.SentAt); err != nil {
		return fmt.Errorf("email log repository: create %w", err)
	}

	return nil
}

// GetByID возвращает запись журнала по идентификатору.
func (r *EmailLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error) {
	var log models.EmailLog
	if err := r.db.GetContext(ctx, &log, `SELECT * FROM email_logs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrEmailLogNotFound
		}
		return nil, fmt.Errorf("email log repository: get by id %w", err)
	}

	return &log, nil
}

// ListByProposal возвращает журнал отправок предложения, свежие первыми.
func (r *EmailLogRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	query := `SELECT * FROM email_logs WHERE proposal_id = $1 ORDER BY sent_at DESC`
	if err := r.db.SelectContext(ctx, &logs, query, proposalID); err != nil {
		return nil, fmt.Errorf("email log repository: list by proposal %w", err)
	}

	return logs, nil
}

// MarkOpened выставляет флаг открытия письма. Идемпотентно: обновляется
// только запись с opened = FALSE, повторные вызовы не трогают opened_at.
// Возвращает true, если флаг был выставлен этим вызовом.
func (r *EmailLogRepository) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE email_logs SET opened = TRUE, opened_at = NOW() WHERE id = $1 AND opened = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("email log repository: mark opened %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("email log repository: mark opened rows affected %w", err)
	}
	if rowsAffected == 0 {
		// Ноль строк — либо письмо уже открыто, либо записи нет вовсе.
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
	}

	return rowsAffected > 0, nil
}

// MarkClicked выставляет флаг клика по ссылке. Идемпотентно, как MarkOpened.
func (r *EmailLogRepository) MarkClicked(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE email_logs SET clicked = TRUE, clicked_at = NOW() WHERE id = $1 AND clicked = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("email log repository: mark clicked %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("email log repository: mark clicked rows affected %w", err)
	}
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
	}

	return rowsAffected > 0, nil
}
