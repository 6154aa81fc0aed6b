package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/repository"
)

// TemplateHandler отдаёт справочник отраслевых шаблонов.
// Шаблоны read-only, поэтому слоя сервиса у них нет.
type TemplateHandler struct {
	repo *repository.TemplateRepository
}

func NewTemplateHandler(repo *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{repo: repo}
}

// List GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.repo.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, templates)
}
