package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

// trackingPixel — однопиксельный прозрачный GIF для трекинга открытий.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type EmailHandler struct {
	svc           *service.NotificationService
	publicBaseURL string
}

func NewEmailHandler(svc *service.NotificationService, publicBaseURL string) *EmailHandler {
	return &EmailHandler{svc: svc, publicBaseURL: publicBaseURL}
}

// Send POST /send-email
func (h *EmailHandler) Send(c *gin.Context) {
	var req struct {
		ProposalID    string `json:"proposal_id"`
		Recipient     string `json:"recipient_email"`
		CustomMessage string `json:"custom_message,omitempty"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		_ = c.Error(apperror.New(apperror.ErrCodeValidation, "некорректный идентификатор предложения"))
		return
	}

	log, err := h.svc.SendProposal(c.Request.Context(), proposalID, service.SendProposalInput{
		Recipient:     req.Recipient,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// ListLogs GET /email-logs/:proposalId
func (h *EmailHandler) ListLogs(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "proposalId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.svc.ListLogs(c.Request.Context(), proposalID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// TrackOpen GET /track-open/:id
// Всегда отвечает пикселем и статусом 200: почтовые клиенты не должны
// видеть ошибок, а неизвестный идентификатор не повод их показывать.
func (h *EmailHandler) TrackOpen(c *gin.Context) {
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		if err := h.svc.RecordOpen(c.Request.Context(), id); err != nil && !apperror.IsNotFound(err) {
			logger.WithComponent("tracking").Warnf("не удалось отметить открытие %s: %v", id, err)
		}
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Data(http.StatusOK, "image/gif", trackingPixel)
}

// TrackClick GET /track-click/:id
// Отмечает клик и уводит получателя на страницу предложения.
func (h *EmailHandler) TrackClick(c *gin.Context) {
	target := h.publicBaseURL

	if id, err := uuid.Parse(c.Param("id")); err == nil {
		if err := h.svc.RecordClick(c.Request.Context(), id); err != nil && !apperror.IsNotFound(err) {
			logger.WithComponent("tracking").Warnf("не удалось отметить клик %s: %v", id, err)
		}
		if log, err := h.svc.GetLog(c.Request.Context(), id); err == nil {
			target = fmt.Sprintf("%s/proposals/%s", h.publicBaseURL, log.ProposalID)
		}
	}

	c.Redirect(http.StatusFound, target)
}
