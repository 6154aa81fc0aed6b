package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// Названия интеграций во внешнем API.
const (
	IntegrationResend     = "resend"
	IntegrationBrevo      = "brevo"
	IntegrationGoogle = "google"
)

// ConnectionProbe проверяет доступность одной внешней интеграции.
type ConnectionProbe func(ctx context.Context) bool

// IntegrationService отвечает на вопрос «подключена ли интеграция».
// Каждая проверка независима: падение одной не влияет на остальные.
type IntegrationService struct {
	probes map[string]ConnectionProbe
}

// NewIntegrationService создаёт сервис статусов интеграций.
func NewIntegrationService(resend, brevo, google ConnectionProbe) *IntegrationService {
	return &IntegrationService{
		probes: map[string]ConnectionProbe{
			IntegrationResend: resend,
			IntegrationBrevo:  brevo,
			IntegrationGoogle: google,
		},
	}
}

// IntegrationStatus описывает состояние одной интеграции.
type IntegrationStatus struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// Status проверяет одну интеграцию по имени.
func (s *IntegrationService) Status(ctx context.Context, name string) (*IntegrationStatus, error) {
	probe, ok := s.probes[name]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeNotFound, fmt.Sprintf("неизвестная интеграция %q", name))
	}
	return &IntegrationStatus{Name: name, Connected: probe(ctx)}, nil
}

// StatusAll проверяет все известные интеграции.
func (s *IntegrationService) StatusAll(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(s.probes))
	for name, probe := range s.probes {
		out[name] = probe(ctx)
	}
	return out
}
