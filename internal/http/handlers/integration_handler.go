package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type IntegrationHandler struct {
	svc *service.IntegrationService
}

func NewIntegrationHandler(svc *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{svc: svc}
}

// Status GET /integrations/:provider/status
func (h *IntegrationHandler) Status(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context(), c.Param("provider"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// StatusAll GET /integrations/status
func (h *IntegrationHandler) StatusAll(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.StatusAll(c.Request.Context()))
}
