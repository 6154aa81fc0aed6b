package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailLog описывает одну отправку предложения и её трекинг.
// Создаётся в момент отправки; меняется только колбэками открытия/клика,
// причём флаги монотонны: однажды выставленный true не сбрасывается.
type EmailLog struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	ProposalID        uuid.UUID  `db:"proposal_id" json:"proposal_id"`
	Recipient         string     `db:"recipient" json:"recipient"`
	Subject           string     `db:"subject" json:"subject"`
	SentAt            time.Time  `db:"sent_at" json:"sent_at"`
	Opened            bool       `db:"opened" json:"opened"`
	OpenedAt          *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	Clicked           bool       `db:"clicked" json:"clicked"`
	ClickedAt         *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
	ProviderMessageID *string    `db:"provider_message_id" json:"provider_message_id,omitempty"`
}
