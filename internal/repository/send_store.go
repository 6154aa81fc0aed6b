package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/repository/common"
)

// SendStore объединяет запись журнала отправки и смену статуса предложения
// в одну транзакцию: либо происходит и то и другое, либо ничего.
type SendStore struct {
	db        *sqlx.DB
	logs      *EmailLogRepository
	proposals *ProposalRepository
}

// NewSendStore создаёт транзакционное хранилище отправки.
func NewSendStore(db *sqlx.DB, logs *EmailLogRepository, proposals *ProposalRepository) *SendStore {
	return &SendStore{
		db:        db,
		logs:      logs,
		proposals: proposals,
	}
}

// CreateSentLog сохраняет запись журнала и переводит предложение в Sent.
func (s *SendStore) CreateSentLog(ctx context.Context, log *models.EmailLog) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.logs.CreateTx(ctx, tx, log); err != nil {
			return err
		}
		return s.proposals.MarkSentTx(ctx, tx, log.ProposalID)
	})
}
