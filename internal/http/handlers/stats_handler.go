package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type StatsHandler struct {
	svc *service.AnalyticsService
}

func NewStatsHandler(svc *service.AnalyticsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Stats GET /stats
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analytics GET /analytics
func (h *StatsHandler) Analytics(c *gin.Context) {
	analytics, err := h.svc.Analytics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
