package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// Message описывает одно исходящее письмо с предложением.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// ResendMailer отправляет письма через Resend.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer создаёт отправщик писем.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

// Send отправляет письмо и возвращает идентификатор сообщения у провайдера.
func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure,
			"не удалось отправить письмо: "+err.Error())
	}

	return sent.Id, nil
}

// Ping проверяет доступность Resend лёгким авторизованным запросом.
// Отрицательный результат — это не ошибка, а штатный ответ "не подключено".
func (m *ResendMailer) Ping(ctx context.Context) bool {
	_, err := m.client.ApiKeys.ListWithContext(ctx)
	return err == nil
}

// RenderProposalHTML собирает HTML письма: необязательное сопроводительное
// сообщение, текст предложения и трекинговые элементы (пиксель открытия и
// редирект для клика) с идентификатором записи журнала.
func RenderProposalHTML(content, customMessage, companyName, openURL, clickURL string) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto;">`)

	if customMessage != "" {
		fmt.Fprintf(&b, `<p>%s</p><hr>`, html.EscapeString(customMessage))
	}

	b.WriteString(`<div style="white-space: pre-wrap;">`)
	b.WriteString(html.EscapeString(content))
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<p><a href="%s">Открыть предложение</a></p>`, clickURL)

	if companyName != "" {
		fmt.Fprintf(&b, `<p style="color: #888; font-size: 12px;">%s</p>`, html.EscapeString(companyName))
	}

	fmt.Fprintf(&b, `<img src="%s" width="1" height="1" alt="">`, openURL)
	b.WriteString(`</div>`)

	return b.String()
}
