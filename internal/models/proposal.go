package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus описывает этап жизненного цикла коммерческого предложения.
type ProposalStatus string

const (
	StatusDraft         ProposalStatus = "Draft"
	StatusPendingReview ProposalStatus = "Pending Review"
	StatusSent          ProposalStatus = "Sent"
	StatusAccepted      ProposalStatus = "Accepted"
	StatusRejected      ProposalStatus = "Rejected"
)

// AllStatuses перечисляет все допустимые статусы.
var AllStatuses = []ProposalStatus{
	StatusDraft,
	StatusPendingReview,
	StatusSent,
	StatusAccepted,
	StatusRejected,
}

// Valid проверяет, что статус входит в закрытый список.
func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// BadgeColor возвращает цвет бейджа для статуса.
// Закрытый enum с дефолтом вместо сравнения строк.
func (s ProposalStatus) BadgeColor() string {
	switch s {
	case StatusDraft:
		return "gray"
	case StatusPendingReview:
		return "yellow"
	case StatusSent:
		return "blue"
	case StatusAccepted:
		return "green"
	case StatusRejected:
		return "red"
	default:
		return "gray"
	}
}

// StatusTransitions задаёт таблицу допустимых переходов статусов.
// Применяется только при включённом STATUS_FLOW_ENFORCED: исторически
// приложение позволяло любой переход, и это поведение осталось дефолтным.
var StatusTransitions = map[ProposalStatus][]ProposalStatus{
	StatusDraft:         {StatusPendingReview, StatusSent},
	StatusPendingReview: {StatusDraft, StatusSent},
	StatusSent:          {StatusAccepted, StatusRejected},
	StatusAccepted:      {},
	StatusRejected:      {StatusDraft},
}

// CanTransition проверяет переход по таблице StatusTransitions.
func CanTransition(from, to ProposalStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range StatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Proposal описывает коммерческое предложение для клиента.
type Proposal struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	ClientName         string         `db:"client_name" json:"client_name"`
	ProjectDescription string         `db:"project_description" json:"project_description"`
	BudgetRange        string         `db:"budget_range" json:"budget_range"`
	Timeline           string         `db:"timeline" json:"timeline"`
	Status             ProposalStatus `db:"status" json:"status"`
	Content            *string        `db:"content" json:"content,omitempty"`
	DealValue          *float64       `db:"deal_value" json:"deal_value,omitempty"`
	SelectedClauses    []string       `db:"selected_clauses" json:"selected_clauses"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
	AcceptedAt         *time.Time     `db:"accepted_at" json:"accepted_at,omitempty"`
}

// ProposalUpdate содержит частичное обновление предложения.
// nil-поля не трогаются (семантика PATCH).
type ProposalUpdate struct {
	ClientName         *string         `json:"client_name,omitempty"`
	ProjectDescription *string         `json:"project_description,omitempty"`
	BudgetRange        *string         `json:"budget_range,omitempty"`
	Timeline           *string         `json:"timeline,omitempty"`
	Status             *ProposalStatus `json:"status,omitempty"`
	Content            *string         `json:"content,omitempty"`
	DealValue          *float64        `json:"deal_value,omitempty"`
	SelectedClauses    *[]string       `json:"selected_clauses,omitempty"`
}

// ProposalStats содержит количество предложений по статусам.
type ProposalStats struct {
	Total         int `json:"total"`
	Draft         int `json:"draft"`
	PendingReview int `json:"pending_review"`
	Sent          int `json:"sent"`
	Accepted      int `json:"accepted"`
	Rejected      int `json:"rejected"`
}

// ProposalAnalytics содержит производные метрики по всем предложениям.
type ProposalAnalytics struct {
	AcceptanceRate     int            `json:"acceptance_rate"`
	AverageDealSize    float64        `json:"average_deal_size"`
	AverageDaysToClose float64        `json:"average_days_to_close"`
	TotalRevenue       float64        `json:"total_revenue"`
	StatusDistribution map[string]int `json:"status_distribution"`
}
