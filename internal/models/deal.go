package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DealProcessingStatus описывает локальный статус обработки CRM-сделки.
type DealProcessingStatus string

const (
	DealNew       DealProcessingStatus = "new"
	DealApproved  DealProcessingStatus = "approved"
	DealProcessed DealProcessingStatus = "processed"
)

// Deal — локальное зеркало сделки из Brevo CRM.
// Создаётся и обновляется поллером или вебхуком, UI её не создаёт.
type Deal struct {
	ID               uuid.UUID            `db:"id" json:"id"`
	ExternalID       string               `db:"external_id" json:"external_id"`
	Name             string               `db:"name" json:"name"`
	Company          *string              `db:"company" json:"company,omitempty"`
	ContactEmail     *string              `db:"contact_email" json:"contact_email,omitempty"`
	Value            *float64             `db:"value" json:"value,omitempty"`
	Stage            string               `db:"stage" json:"stage"`
	ProcessingStatus DealProcessingStatus `db:"processing_status" json:"processing_status"`
	ProposalID       *uuid.UUID           `db:"proposal_id" json:"proposal_id,omitempty"`
	RawPayload       json.RawMessage      `db:"raw_payload" json:"raw_payload,omitempty"`
	CreatedAt        time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `db:"updated_at" json:"updated_at"`
}
