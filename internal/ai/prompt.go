package ai

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

// PromptInput содержит всё, из чего собирается промпт генерации.
type PromptInput struct {
	ClientName             string
	ProjectDescription     string
	BudgetRange            string
	Timeline               string
	AdditionalRequirements string
	Clauses                []models.Clause
	Template               *models.Template
	DocumentText           string
}

// ComposePrompt собирает промпт генерации предложения.
// Структура разделов повторяет формат, под который обучены шаблоны.
func ComposePrompt(input PromptInput) string {
	var b strings.Builder

	b.WriteString("Generate a professional business proposal with the following details:\n\n")
	fmt.Fprintf(&b, "Client Name: %s\n", input.ClientName)
	fmt.Fprintf(&b, "Project Description: %s\n", input.ProjectDescription)
	fmt.Fprintf(&b, "Budget Range: %s\n", input.BudgetRange)
	fmt.Fprintf(&b, "Timeline: %s\n", input.Timeline)

	if input.AdditionalRequirements != "" {
		fmt.Fprintf(&b, "\nAdditional Requirements: %s\n", input.AdditionalRequirements)
	}

	if input.Template != nil && input.Template.PromptText != "" {
		fmt.Fprintf(&b, "\nStyle guidance for the %s industry:\n%s\n", input.Template.Industry, input.Template.PromptText)
	}

	if input.DocumentText != "" {
		fmt.Fprintf(&b, "\nContext from an uploaded document:\n%s\n", input.DocumentText)
	}

	if len(input.Clauses) > 0 {
		b.WriteString("\nInclude these clauses in the proposal:\n")
		for _, clause := range input.Clauses {
			fmt.Fprintf(&b, "**%s**\n%s\n\n", clause.Title, clause.Content)
		}
	}

	b.WriteString(`
Please create a comprehensive, well-structured proposal that includes:
1. Executive Summary
2. Project Overview
3. Scope of Work
4. Timeline and Milestones
5. Budget and Pricing
6. Terms and Conditions (incorporating the provided clauses)
7. Next Steps

Use professional business language and maintain a persuasive yet informative tone.`)

	return b.String()
}
