package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/models"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type ProposalHandler struct {
	svc *service.ProposalService
}

func NewProposalHandler(svc *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// List GET /proposals?status=X
func (h *ProposalHandler) List(c *gin.Context) {
	var status *models.ProposalStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ProposalStatus(raw)
		status = &s
	}

	proposals, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// Get GET /proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create POST /proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	var req service.CreateProposalInput
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update PATCH /proposals/:id
func (h *ProposalHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req models.ProposalUpdate
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete DELETE /proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal deleted successfully"})
}

// Generate POST /generate-proposal
func (h *ProposalHandler) Generate(c *gin.Context) {
	var req service.GenerateInput
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	content, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}
