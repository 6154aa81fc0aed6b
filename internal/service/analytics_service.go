package service

import (
	"context"
	"fmt"
	"math"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

// ProposalStatsRepository описывает чтение данных для статистики.
type ProposalStatsRepository interface {
	List(ctx context.Context, status *models.ProposalStatus) ([]models.Proposal, error)
	CountByStatus(ctx context.Context) (map[models.ProposalStatus]int, error)
}

// AnalyticsService считает статистику и производные метрики по предложениям.
type AnalyticsService struct {
	repo ProposalStatsRepository
}

// NewAnalyticsService создаёт новый сервис аналитики.
func NewAnalyticsService(repo ProposalStatsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Stats возвращает количество предложений по статусам.
func (s *AnalyticsService) Stats(ctx context.Context) (*models.ProposalStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics service: подсчёт статусов: %w", err)
	}

	stats := &models.ProposalStats{
		Draft:         counts[models.StatusDraft],
		PendingReview: counts[models.StatusPendingReview],
		Sent:          counts[models.StatusSent],
		Accepted:      counts[models.StatusAccepted],
		Rejected:      counts[models.StatusRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// Analytics возвращает производные метрики по всем предложениям.
func (s *AnalyticsService) Analytics(ctx context.Context) (*models.ProposalAnalytics, error) {
	proposals, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics service: загрузка предложений: %w", err)
	}
	return computeAnalytics(proposals), nil
}

// computeAnalytics считает метрики по срезу предложений. Вынесена отдельно,
// чтобы расчёты можно было проверять без базы.
func computeAnalytics(proposals []models.Proposal) *models.ProposalAnalytics {
	out := &models.ProposalAnalytics{
		StatusDistribution: make(map[string]int, len(models.AllStatuses)),
	}
	for _, status := range models.AllStatuses {
		out.StatusDistribution[string(status)] = 0
	}

	var (
		accepted     int
		dealValueSum float64
		dealValueCnt int
		daysSum      float64
		daysCnt      int
	)

	for _, p := range proposals {
		out.StatusDistribution[string(p.Status)]++

		if p.Status == models.StatusAccepted {
			accepted++
			if p.DealValue != nil {
				out.TotalRevenue += *p.DealValue
			}
			if p.AcceptedAt != nil {
				daysSum += p.AcceptedAt.Sub(p.CreatedAt).Hours() / 24
				daysCnt++
			}
		}

		if p.DealValue != nil {
			dealValueSum += *p.DealValue
			dealValueCnt++
		}
	}

	// Доля принятых считается от всех предложений, а не только от закрытых.
	if len(proposals) > 0 {
		out.AcceptanceRate = int(math.Round(float64(accepted) / float64(len(proposals)) * 100))
	}
	if dealValueCnt > 0 {
		out.AverageDealSize = dealValueSum / float64(dealValueCnt)
	}
	if daysCnt > 0 {
		out.AverageDaysToClose = daysSum / float64(daysCnt)
	}
	return out
}
