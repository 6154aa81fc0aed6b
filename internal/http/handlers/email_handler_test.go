package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEmailHandler_TrackOpen_BadIDStillReturnsPixel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewEmailHandler(nil, "https://api.example.com")
	r.GET("/track-open/:id", handler.TrackOpen)

	req, _ := http.NewRequest("GET", "/track-open/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Equal(t, trackingPixel, w.Body.Bytes())
}

func TestEmailHandler_TrackClick_BadIDRedirectsToBase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewEmailHandler(nil, "https://api.example.com")
	r.GET("/track-click/:id", handler.TrackClick)

	req, _ := http.NewRequest("GET", "/track-click/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://api.example.com", w.Header().Get("Location"))
}

func TestEmailHandler_ListLogs_InvalidProposalID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewEmailHandler(nil, "https://api.example.com")
	r.GET("/email-logs/:proposalId", handler.ListLogs)

	req, _ := http.NewRequest("GET", "/email-logs/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
