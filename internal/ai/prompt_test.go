package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

func TestComposePrompt_BasicFields(t *testing.T) {
	prompt := ComposePrompt(PromptInput{
		ClientName:         "Acme Corp",
		ProjectDescription: "Интеграция платёжной системы",
		BudgetRange:        "$10,000 - $20,000",
		Timeline:           "3 months",
	})

	assert.Contains(t, prompt, "Client Name: Acme Corp")
	assert.Contains(t, prompt, "Budget Range: $10,000 - $20,000")
	assert.Contains(t, prompt, "Timeline: 3 months")
	assert.Contains(t, prompt, "1. Executive Summary")
	assert.Contains(t, prompt, "7. Next Steps")
	assert.NotContains(t, prompt, "Additional Requirements")
	assert.NotContains(t, prompt, "Include these clauses")
}

func TestComposePrompt_ClausesFormat(t *testing.T) {
	prompt := ComposePrompt(PromptInput{
		ClientName:         "Acme Corp",
		ProjectDescription: "Описание",
		BudgetRange:        "$5,000",
		Timeline:           "1 month",
		Clauses: []models.Clause{
			{Title: "Payment Terms", Content: "50% deposit upfront."},
			{Title: "Confidentiality", Content: "Both parties agree..."},
		},
	})

	assert.Contains(t, prompt, "Include these clauses in the proposal:")
	assert.Contains(t, prompt, "**Payment Terms**\n50% deposit upfront.")
	assert.Contains(t, prompt, "**Confidentiality**\nBoth parties agree...")
	// Блоки идут после полей формы.
	assert.Less(t, strings.Index(prompt, "Client Name"), strings.Index(prompt, "Payment Terms"))
}

func TestComposePrompt_TemplateAndDocument(t *testing.T) {
	prompt := ComposePrompt(PromptInput{
		ClientName:             "Acme Corp",
		ProjectDescription:     "Описание",
		BudgetRange:            "$5,000",
		Timeline:               "1 month",
		AdditionalRequirements: "Weekly status calls",
		Template: &models.Template{
			Industry:   "Technology",
			PromptText: "Emphasize technical expertise.",
		},
		DocumentText: "Excerpt from the client brief.",
	})

	assert.Contains(t, prompt, "Additional Requirements: Weekly status calls")
	assert.Contains(t, prompt, "Style guidance for the Technology industry:")
	assert.Contains(t, prompt, "Emphasize technical expertise.")
	assert.Contains(t, prompt, "Context from an uploaded document:")
	assert.Contains(t, prompt, "Excerpt from the client brief.")
}
