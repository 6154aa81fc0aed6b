package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCRMHandler_Webhook_WrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewCRMHandler(nil, "top-secret")
	r.POST("/webhooks/brevo", handler.Webhook)

	req, _ := http.NewRequest("POST", "/webhooks/brevo", strings.NewReader(`{"id":"1"}`))
	req.Header.Set("X-Webhook-Secret", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCRMHandler_Webhook_MissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewCRMHandler(nil, "top-secret")
	r.POST("/webhooks/brevo", handler.Webhook)

	req, _ := http.NewRequest("POST", "/webhooks/brevo", strings.NewReader(`{"id":"1"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCRMHandler_UpdateOpportunity_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewCRMHandler(nil, "")
	r.PATCH("/brevo/opportunities/:id", handler.UpdateOpportunity)

	req, _ := http.NewRequest("PATCH", "/brevo/opportunities/invalid-uuid", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
