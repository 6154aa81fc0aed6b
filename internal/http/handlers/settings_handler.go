package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update POST /settings
// Настройки сохраняются целиком, а не по одному полю.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.Settings
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
