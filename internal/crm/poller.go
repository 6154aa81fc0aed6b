package crm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

// DealIngester принимает нормализованные сделки на upsert.
type DealIngester interface {
	IngestDeal(ctx context.Context, payload DealPayload) (*models.Deal, error)
}

// SettingsProvider отдаёт актуальные настройки приложения.
type SettingsProvider interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// idleInterval — пауза между проверками настроек, когда поллинг выключен.
const idleInterval = time.Minute

// Poller периодически забирает сделки из Brevo и передаёт их на ingest.
// Включение и интервал управляются настройками и перечитываются на каждом
// круге, чтобы смена настроек применялась без перезапуска.
type Poller struct {
	client   *Client
	ingester DealIngester
	settings SettingsProvider
}

// NewPoller создаёт поллер.
func NewPoller(client *Client, ingester DealIngester, settings SettingsProvider) *Poller {
	return &Poller{
		client:   client,
		ingester: ingester,
		settings: settings,
	}
}

// Run крутит цикл поллинга до отмены контекста.
func (p *Poller) Run(ctx context.Context) {
	log := logger.WithComponent("crm-poller")

	for {
		interval := idleInterval

		settings, err := p.settings.Get(ctx)
		if err != nil {
			log.WithError(err).Error("не удалось прочитать настройки")
		} else if settings.BrevoPollingEnabled {
			if settings.BrevoPollingInterval > 0 {
				interval = time.Duration(settings.BrevoPollingInterval) * time.Minute
			}
			p.pollOnce(ctx, log)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, log *logrus.Entry) {
	deals, err := p.client.ListDeals(ctx)
	if err != nil {
		log.Errorf("не удалось получить сделки: %v", err)
		return
	}

	for _, payload := range deals {
		if _, err := p.ingester.IngestDeal(ctx, payload); err != nil {
			log.Errorf("не удалось обработать сделку %s: %v", payload.ExternalID, err)
		}
	}
}
