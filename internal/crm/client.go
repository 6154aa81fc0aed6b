package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// DealPayload — нормализованная сделка из Brevo, единый вход для
// поллинга и вебхука.
type DealPayload struct {
	ExternalID   string          `json:"id"`
	Name         string          `json:"name"`
	Company      *string         `json:"company,omitempty"`
	ContactEmail *string         `json:"contact_email,omitempty"`
	Value        *float64        `json:"value,omitempty"`
	Stage        string          `json:"stage"`
	Raw          json.RawMessage `json:"-"`
}

// Client — клиент Brevo CRM API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// brevoDeal — сырой формат сделки в ответе Brevo.
type brevoDeal struct {
	ID         string `json:"id"`
	Attributes struct {
		DealName     string   `json:"deal_name"`
		Amount       *float64 `json:"amount"`
		DealStage    string   `json:"deal_stage"`
		CompanyName  *string  `json:"company_name"`
		ContactEmail *string  `json:"contact_email"`
	} `json:"attributes"`
}

// ListDeals возвращает сделки из Brevo.
func (c *Client) ListDeals(ctx context.Context) ([]DealPayload, error) {
	body, err := c.get(ctx, "/crm/deals")
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось разобрать ответ Brevo")
	}

	deals := make([]DealPayload, 0, len(response.Items))
	for _, raw := range response.Items {
		var deal brevoDeal
		if err := json.Unmarshal(raw, &deal); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось разобрать сделку Brevo")
		}
		deals = append(deals, normalizeDeal(deal, raw))
	}

	return deals, nil
}

// Ping проверяет доступность Brevo лёгким запросом аккаунта.
// Отрицательный результат — штатный ответ "не подключено", не ошибка.
func (c *Client) Ping(ctx context.Context) bool {
	if c.apiKey == "" {
		return false
	}

	_, err := c.get(ctx, "/account")
	return err == nil
}

// ParseWebhookDeal разбирает тело вебхука Brevo в нормализованную сделку.
func ParseWebhookDeal(body []byte) (*DealPayload, error) {
	var deal brevoDeal
	if err := json.Unmarshal(body, &deal); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректное тело вебхука")
	}
	if deal.ID == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "в теле вебхука отсутствует идентификатор сделки")
	}

	payload := normalizeDeal(deal, body)
	return &payload, nil
}

func normalizeDeal(deal brevoDeal, raw json.RawMessage) DealPayload {
	return DealPayload{
		ExternalID:   deal.ID,
		Name:         deal.Attributes.DealName,
		Company:      deal.Attributes.CompanyName,
		ContactEmail: deal.Attributes.ContactEmail,
		Value:        deal.Attributes.Amount,
		Stage:        deal.Attributes.DealStage,
		Raw:          raw,
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("crm: build request %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "Brevo недоступен")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apperror.New(apperror.ErrCodeUpstreamFailure,
			fmt.Sprintf("Brevo вернул код %d", resp.StatusCode))
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось прочитать ответ Brevo")
	}

	return buf, nil
}
