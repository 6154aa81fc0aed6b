package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

// DocExporter экспортирует предложение в Google Docs.
type DocExporter interface {
	Export(ctx context.Context, templateID string, p *models.Proposal) (string, error)
}

type GoogleDocHandler struct {
	proposals *service.ProposalService
	settings  *service.SettingsService
	exporter  DocExporter
}

func NewGoogleDocHandler(proposals *service.ProposalService, settings *service.SettingsService, exporter DocExporter) *GoogleDocHandler {
	return &GoogleDocHandler{
		proposals: proposals,
		settings:  settings,
		exporter:  exporter,
	}
}

// Export POST /proposals/:id/google-doc
// Создаёт копию настроенного шаблона Google Doc и подставляет в неё
// данные предложения.
func (h *GoogleDocHandler) Export(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.proposals.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if settings.GoogleDocTemplateID == "" {
		_ = c.Error(apperror.New(apperror.ErrCodeValidation, "в настройках не указан шаблон Google Doc"))
		return
	}

	url, err := h.exporter.Export(c.Request.Context(), settings.GoogleDocTemplateID, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_url": url})
}
