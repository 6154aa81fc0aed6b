package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

const proposalColumns = `id, client_name, project_description, budget_range, timeline,
	status, content, deal_value, selected_clauses, created_at, updated_at, accepted_at`

// ProposalRepository отвечает за хранение предложений.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр репозитория.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create создаёт новое предложение.
func (r *ProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	query := `
		INSERT INTO proposals (client_name, project_description, budget_range, timeline,
			status, content, deal_value, selected_clauses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		p.ClientName,
		p.ProjectDescription,
		p.BudgetRange,
		p.Timeline,
		p.Status,
		p.Content,
		p.DealValue,
		pq.Array(p.SelectedClauses),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// GetByID возвращает предложение по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	row := r.db.QueryRowxContext(ctx, query, id)
	p, err := scanProposal(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	return p, nil
}

// List возвращает все предложения, опционально с фильтром по статусу.
func (r *ProposalRepository) List(ctx context.Context, status *models.ProposalStatus) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list query %w", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("proposal repository: list scan %w", err)
		}
		proposals = append(proposals, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("proposal repository: list rows %w", err)
	}

	return proposals, nil
}

// Update сохраняет изменённые поля предложения целиком.
// Частичное слияние делает сервис; сюда приходит уже собранная запись.
func (r *ProposalRepository) Update(ctx context.Context, p *models.Proposal) error {
	query := `
		UPDATE proposals
		SET client_name = $2, project_description = $3, budget_range = $4, timeline = $5,
			status = $6, content = $7, deal_value = $8, selected_clauses = $9,
			accepted_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		p.ID,
		p.ClientName,
		p.ProjectDescription,
		p.BudgetRange,
		p.Timeline,
		p.Status,
		p.Content,
		p.DealValue,
		pq.Array(p.SelectedClauses),
		p.AcceptedAt,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrProposalNotFound
	}
	if err != nil {
		return fmt.Errorf("proposal repository: update %w", err)
	}

	return nil
}

// Delete удаляет предложение.
func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("proposal repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return apperror.ErrProposalNotFound
	}

	return nil
}

// MarkSentTx выставляет статус Sent внутри внешней транзакции.
func (r *ProposalRepository) MarkSentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, models.StatusSent)
	if err != nil {
		return fmt.Errorf("proposal repository: mark sent %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: mark sent rows affected %w", err)
	}

	if rowsAffected == 0 {
		return apperror.ErrProposalNotFound
	}

	return nil
}

// CountByStatus возвращает количество предложений по каждому статусу.
func (r *ProposalRepository) CountByStatus(ctx context.Context) (map[models.ProposalStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM proposals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ProposalStatus]int)
	for rows.Next() {
		var status models.ProposalStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("proposal repository: count scan %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("proposal repository: count rows %w", err)
	}

	return counts, nil
}

// scanProposal читает одну строку предложения, разворачивая text[] колонку.
func scanProposal(scan func(dest ...interface{}) error) (*models.Proposal, error) {
	var p models.Proposal
	var clauses pq.StringArray
	var content sql.NullString
	var dealValue sql.NullFloat64
	var acceptedAt sql.NullTime

	if err := scan(
		&p.ID,
		&p.ClientName,
		&p.ProjectDescription,
		&p.BudgetRange,
		&p.Timeline,
		&p.Status,
		&content,
		&dealValue,
		&clauses,
		&p.CreatedAt,
		&p.UpdatedAt,
		&acceptedAt,
	); err != nil {
		return nil, err
	}

	p.SelectedClauses = []string(clauses)
	if p.SelectedClauses == nil {
		p.SelectedClauses = []string{}
	}
	if content.Valid {
		p.Content = &content.String
	}
	if dealValue.Valid {
		p.DealValue = &dealValue.Float64
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time.UTC()
		p.AcceptedAt = &t
	}

	return &p, nil
}
