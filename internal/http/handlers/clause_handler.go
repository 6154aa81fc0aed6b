package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
)

type ClauseHandler struct {
	svc *service.ClauseService
}

func NewClauseHandler(svc *service.ClauseService) *ClauseHandler {
	return &ClauseHandler{svc: svc}
}

// List GET /clauses
func (h *ClauseHandler) List(c *gin.Context) {
	clauses, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clauses)
}

// Create POST /clauses
func (h *ClauseHandler) Create(c *gin.Context) {
	var req service.CreateClauseInput
	if err := common.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	clause, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clause)
}

// Delete DELETE /clauses/:id
func (h *ClauseHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clause deleted successfully"})
}
