package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/crm"
	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type CRMHandler struct {
	svc           *service.CRMService
	webhookSecret string
}

func NewCRMHandler(svc *service.CRMService, webhookSecret string) *CRMHandler {
	return &CRMHandler{svc: svc, webhookSecret: webhookSecret}
}

// ListOpportunities GET /brevo/opportunities
func (h *CRMHandler) ListOpportunities(c *gin.Context) {
	deals, err := h.svc.ListDeals(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deals)
}

// UpdateOpportunity PATCH /brevo/opportunities/:id
func (h *CRMHandler) UpdateOpportunity(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req service.DealUpdate
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	deal, err := h.svc.UpdateDeal(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

// ListPending GET /brevo/pending-deals
func (h *CRMHandler) ListPending(c *gin.Context) {
	deals, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deals)
}

// Webhook POST /webhooks/brevo
// Принимает уведомление Brevo о сделке. Секрет сравнивается за
// постоянное время, чтобы не подсвечивать совпавший префикс.
func (h *CRMHandler) Webhook(c *gin.Context) {
	if h.webhookSecret != "" {
		got := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			common.RespondError(c, http.StatusUnauthorized, "неверный секрет вебхука")
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса"))
		return
	}

	payload, err := crm.ParseWebhookDeal(body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	deal, err := h.svc.IngestDeal(c.Request.Context(), *payload)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deal)
}
