package gdocs

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// Exporter создаёт Google Docs документы из предложений по шаблону.
// Аутентификация через сервисный аккаунт.
type Exporter struct {
	credentialsFile string
}

// NewExporter создаёт экспортёр.
func NewExporter(credentialsFile string) *Exporter {
	return &Exporter{credentialsFile: credentialsFile}
}

// Connected проверяет, что учётные данные сервисного аккаунта читаются
// и разбираются. Отрицательный результат — штатный ответ, не ошибка.
func (e *Exporter) Connected(ctx context.Context) bool {
	if e.credentialsFile == "" {
		return false
	}

	data, err := os.ReadFile(e.credentialsFile)
	if err != nil {
		return false
	}

	_, err = google.CredentialsFromJSON(ctx, data, docs.DocumentsScope, drive.DriveScope)
	return err == nil
}

// Export копирует документ-шаблон и заменяет плейсхолдеры полями
// предложения. Возвращает ссылку на созданный документ.
func (e *Exporter) Export(ctx context.Context, templateID string, p *models.Proposal) (string, error) {
	if e.credentialsFile == "" {
		return "", apperror.New(apperror.ErrCodeUpstreamFailure, "интеграция с Google не настроена")
	}
	if templateID == "" {
		return "", apperror.New(apperror.ErrCodeValidation, "в настройках не задан google_doc_template_id")
	}

	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(e.credentialsFile),
		option.WithScopes(drive.DriveScope))
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось инициализировать Google Drive")
	}

	title := fmt.Sprintf("Proposal - %s", p.ClientName)
	copied, err := driveService.Files.Copy(templateID, &drive.File{Name: title}).Context(ctx).Do()
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось скопировать шаблон документа")
	}

	docsService, err := docs.NewService(ctx,
		option.WithCredentialsFile(e.credentialsFile),
		option.WithScopes(docs.DocumentsScope))
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось инициализировать Google Docs")
	}

	content := ""
	if p.Content != nil {
		content = *p.Content
	}

	replacements := map[string]string{
		"{{client_name}}":         p.ClientName,
		"{{project_description}}": p.ProjectDescription,
		"{{budget_range}}":        p.BudgetRange,
		"{{timeline}}":            p.Timeline,
		"{{content}}":             content,
	}

	requests := make([]*docs.Request, 0, len(replacements))
	for placeholder, value := range replacements {
		requests = append(requests, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{
					Text:      placeholder,
					MatchCase: true,
				},
				ReplaceText: value,
			},
		})
	}

	_, err = docsService.Documents.BatchUpdate(copied.Id, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось заполнить документ")
	}

	return "https://docs.google.com/document/d/" + copied.Id, nil
}
