package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposal-ai-backend/internal/models"
)

func f64(v float64) *float64 { return &v }

func TestAnalyticsService_Stats(t *testing.T) {
	repo := new(mockProposalRepo)
	svc := NewAnalyticsService(repo)
	ctx := context.Background()

	repo.On("CountByStatus", ctx).Return(map[models.ProposalStatus]int{
		models.StatusDraft:    3,
		models.StatusSent:     2,
		models.StatusAccepted: 1,
	}, nil)

	stats, err := svc.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.Draft)
	assert.Equal(t, 0, stats.PendingReview)
	assert.Equal(t, 2, stats.Sent)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 0, stats.Rejected)
}

func TestComputeAnalytics_Empty(t *testing.T) {
	out := computeAnalytics(nil)

	assert.Equal(t, 0, out.AcceptanceRate)
	assert.Equal(t, 0.0, out.AverageDealSize)
	assert.Equal(t, 0.0, out.AverageDaysToClose)
	assert.Equal(t, 0.0, out.TotalRevenue)
	assert.Len(t, out.StatusDistribution, len(models.AllStatuses))
	assert.Equal(t, 0, out.StatusDistribution["Draft"])
}

func TestComputeAnalytics_Metrics(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	acceptedAt := created.Add(4 * 24 * time.Hour)

	proposals := []models.Proposal{
		{Status: models.StatusAccepted, DealValue: f64(10000), CreatedAt: created, AcceptedAt: &acceptedAt},
		{Status: models.StatusRejected, DealValue: f64(5000), CreatedAt: created},
		{Status: models.StatusDraft, CreatedAt: created},
		{Status: models.StatusSent, DealValue: f64(3000), CreatedAt: created},
	}

	out := computeAnalytics(proposals)

	// Из четырёх предложений принято одно.
	assert.Equal(t, 25, out.AcceptanceRate)
	assert.Equal(t, 6000.0, out.AverageDealSize)
	assert.Equal(t, 4.0, out.AverageDaysToClose)
	assert.Equal(t, 10000.0, out.TotalRevenue)
	assert.Equal(t, 1, out.StatusDistribution["Accepted"])
	assert.Equal(t, 1, out.StatusDistribution["Draft"])
	assert.Equal(t, 0, out.StatusDistribution["Pending Review"])
}

func TestComputeAnalytics_RevenueOnlyFromAccepted(t *testing.T) {
	proposals := []models.Proposal{
		{Status: models.StatusSent, DealValue: f64(100000)},
		{Status: models.StatusRejected, DealValue: f64(50000)},
	}

	out := computeAnalytics(proposals)

	assert.Equal(t, 0.0, out.TotalRevenue)
	assert.Equal(t, 0, out.AcceptanceRate)
	assert.Equal(t, 75000.0, out.AverageDealSize)
}
