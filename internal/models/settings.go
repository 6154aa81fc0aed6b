package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingsID — фиксированный идентификатор единственной записи настроек.
// Настройки хранятся как обычная строка таблицы, а не как глобальное
// изменяемое состояние процесса.
var SettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Settings описывает настройки приложения. Сохраняются целиком (upsert).
type Settings struct {
	ID                   uuid.UUID `db:"id" json:"-"`
	CompanyName          string    `db:"company_name" json:"company_name"`
	DefaultSenderEmail   string    `db:"default_sender_email" json:"default_sender_email"`
	AutoSendOnApproval   bool      `db:"auto_send_on_approval" json:"auto_send_on_approval"`
	NotifyOnProposalOpen bool      `db:"notify_on_proposal_open" json:"notify_on_proposal_open"`
	NotifyOnClick        bool      `db:"notify_on_proposal_click" json:"notify_on_proposal_click"`
	BrevoPollingEnabled  bool      `db:"brevo_polling_enabled" json:"brevo_polling_enabled"`
	BrevoPollingInterval int       `db:"brevo_polling_interval" json:"brevo_polling_interval"`
	GoogleDocTemplateID  string    `db:"google_doc_template_id" json:"google_doc_template_id"`
	ApprovalKeyword      string    `db:"approval_keyword" json:"approval_keyword"`
	UpdatedAt            time.Time `db:"updated_at" json:"-"`
}

// DefaultSettings возвращает настройки по умолчанию для нового развёртывания.
func DefaultSettings() *Settings {
	return &Settings{
		ID:                   SettingsID,
		CompanyName:          "My Company",
		DefaultSenderEmail:   "proposals@example.com",
		AutoSendOnApproval:   false,
		NotifyOnProposalOpen: true,
		NotifyOnClick:        true,
		BrevoPollingEnabled:  false,
		BrevoPollingInterval: 5,
		GoogleDocTemplateID:  "",
		ApprovalKeyword:      "APPROVED",
	}
}
