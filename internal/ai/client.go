package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// systemMessage задаёт роль модели при генерации предложений.
const systemMessage = "You are an expert business proposal writer with years of experience creating winning proposals for B2B clients."

// Client — клиент OpenAI-совместимого chat completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
// Генерация длинного предложения может занимать до двух минут,
// поэтому таймаут большой.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateProposal генерирует текст предложения по собранному промпту.
// Ошибки провайдера не ретраятся: решение о повторе за вызывающим.
func (c *Client) GenerateProposal(ctx context.Context, prompt string) (string, error) {
	messages := []map[string]string{
		{"role": "system", "content": systemMessage},
		{"role": "user", "content": prompt},
	}

	content, err := c.chatCompletion(ctx, messages)
	if err != nil {
		if isTimeout(err) {
			return "", apperror.Wrap(err, apperror.ErrCodeUpstreamTimeout,
				"генерация не уложилась в отведённое время, попробуйте сократить описание")
		}
		return "", err
	}

	return content, nil
}

// chatCompletion выполняет запрос chat/completions и возвращает текст ответа.
func (c *Client) chatCompletion(ctx context.Context, messages []map[string]string) (string, error) {
	if c.baseURL == "" {
		return "", apperror.New(apperror.ErrCodeUpstreamFailure, "AI провайдер не настроен")
	}

	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ai: marshal payload %w", err)
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", apperror.New(apperror.ErrCodeUpstreamFailure,
			fmt.Sprintf("AI провайдер вернул код %d: %v", resp.StatusCode, errorBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeUpstreamFailure, "не удалось разобрать ответ AI провайдера")
	}

	if len(result.Choices) == 0 {
		return "", apperror.New(apperror.ErrCodeUpstreamFailure, "AI провайдер вернул пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}

// isTimeout распознаёт истечение дедлайна как на уровне контекста,
// так и внутри http клиента.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
