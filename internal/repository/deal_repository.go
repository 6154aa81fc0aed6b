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

// DealRepository отвечает за локальное зеркало CRM-сделок.
type DealRepository struct {
	db *sqlx.DB
}

// NewDealRepository создаёт экземпляр репозитория.
func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Upsert создаёт или обновляет сделку по внешнему идентификатору.
// Локальные поля processing_status и proposal_id при обновлении не трогаются:
// они принадлежат нашему процессу, а не CRM.
func (r *DealRepository) Upsert(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO crm_deals (external_id, name, company, contact_email, value, stage,
			processing_status, raw_payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			contact_email = EXCLUDED.contact_email,
			value = EXCLUDED.value,
			stage = EXCLUDED.stage,
			raw_payload = EXCLUDED.raw_payload,
			updated_at = NOW()
		RETURNING id, processing_status, proposal_id, created_at, updated_at
	`

	var proposalID uuid.NullUUID
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		deal.ExternalID,
		deal.Name,
		deal.Company,
		deal.ContactEmail,
		deal.Value,
		deal.Stage,
		models.DealNew,
		[]byte(deal.RawPayload),
	).Scan(&deal.ID, &deal.ProcessingStatus, &proposalID, &deal.CreatedAt, &deal.UpdatedAt); err != nil {
		return fmt.Errorf("deal repository: upsert %w", err)
	}

	if proposalID.Valid {
		deal.ProposalID = &proposalID.UUID
	}

	return nil
}

// GetByID возвращает сделку по локальному идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.GetContext(ctx, &deal, `SELECT * FROM crm_deals WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrDealNotFound
		}
		return nil, fmt.Errorf("deal repository: get by id %w", err)
	}

	return &deal, nil
}

// List возвращает все сделки, свежие первыми.
func (r *DealRepository) List(ctx context.Context) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.SelectContext(ctx, &deals, `SELECT * FROM crm_deals ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("deal repository: list %w", err)
	}

	return deals, nil
}

// ListPending возвращает сделки на этапе подготовки предложения,
// к которым предложение ещё не привязано.
func (r *DealRepository) ListPending(ctx context.Context, proposalStage string) ([]models.Deal, error) {
	var deals []models.Deal
	query := `
		SELECT * FROM crm_deals
		WHERE LOWER(stage) = LOWER($1) AND proposal_id IS NULL
		ORDER BY updated_at DESC
	`
	if err := r.db.SelectContext(ctx, &deals, query, proposalStage); err != nil {
		return nil, fmt.Errorf("deal repository: list pending %w", err)
	}

	return deals, nil
}

// SetProcessingStatus обновляет локальный статус обработки сделки.
func (r *DealRepository) SetProcessingStatus(ctx context.Context, id uuid.UUID, status models.DealProcessingStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE crm_deals SET processing_status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("deal repository: set processing status %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deal repository: set processing status rows affected %w", err)
	}

	if rowsAffected == 0 {
		return apperror.ErrDealNotFound
	}

	return nil
}

// LinkProposal привязывает предложение к сделке.
func (r *DealRepository) LinkProposal(ctx context.Context, id uuid.UUID, proposalID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE crm_deals SET proposal_id = $2, updated_at = NOW() WHERE id = $1
	`, id, proposalID)
	if err != nil {
		return fmt.Errorf("deal repository: link proposal %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deal repository: link proposal rows affected %w", err)
	}

	if rowsAffected == 0 {
		return apperror.ErrDealNotFound
	}

	return nil
}
