package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/config"
	"github.com/ignatzorin/proposal-ai-backend/internal/http/handlers"
	"github.com/ignatzorin/proposal-ai-backend/internal/http/middleware"
)

func SetupRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	proposalHandler *handlers.ProposalHandler,
	googleDocHandler *handlers.GoogleDocHandler,
	clauseHandler *handlers.ClauseHandler,
	templateHandler *handlers.TemplateHandler,
	emailHandler *handlers.EmailHandler,
	settingsHandler *handlers.SettingsHandler,
	integrationHandler *handlers.IntegrationHandler,
	crmHandler *handlers.CRMHandler,
	statsHandler *handlers.StatsHandler,
	uploadHandler *handlers.UploadHandler,
	wsHandler *handlers.WSHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	api.GET("/", healthHandler.Banner)
	api.GET("/ws", wsHandler.Handle)

	// Предложения
	api.GET("/proposals", proposalHandler.List)
	api.POST("/proposals", proposalHandler.Create)
	api.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Get)
	api.PATCH("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Update)
	api.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Delete)
	api.POST("/proposals/:id/google-doc", middleware.UUIDValidator("id"), googleDocHandler.Export)

	// Генерация дорогая, поэтому под отдельным лимитом
	generateRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/generate-proposal", generateRateLimit, proposalHandler.Generate)
	api.POST("/upload", generateRateLimit, uploadHandler.Upload)

	// Библиотека блоков и шаблоны
	api.GET("/clauses", clauseHandler.List)
	api.POST("/clauses", clauseHandler.Create)
	api.DELETE("/clauses/:id", middleware.UUIDValidator("id"), clauseHandler.Delete)
	api.GET("/templates", templateHandler.List)

	// Почта и трекинг
	sendRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/send-email", sendRateLimit, emailHandler.Send)
	api.GET("/email-logs/:proposalId", middleware.UUIDValidator("proposalId"), emailHandler.ListLogs)
	api.GET("/track-open/:id", emailHandler.TrackOpen)
	api.GET("/track-click/:id", emailHandler.TrackClick)

	// Настройки и интеграции
	api.GET("/settings", settingsHandler.Get)
	api.POST("/settings", settingsHandler.Update)
	api.GET("/integrations/status", integrationHandler.StatusAll)
	api.GET("/integrations/:provider/status", integrationHandler.Status)

	// Brevo CRM
	api.GET("/brevo/opportunities", crmHandler.ListOpportunities)
	api.PATCH("/brevo/opportunities/:id", middleware.UUIDValidator("id"), crmHandler.UpdateOpportunity)
	api.GET("/brevo/pending-deals", crmHandler.ListPending)
	api.POST("/webhooks/brevo", crmHandler.Webhook)

	// Статистика
	api.GET("/stats", statsHandler.Stats)
	api.GET("/analytics", statsHandler.Analytics)

	return r
}
