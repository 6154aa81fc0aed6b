package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-ai-backend/internal/ai"
	"github.com/ignatzorin/proposal-ai-backend/internal/config"
	"github.com/ignatzorin/proposal-ai-backend/internal/crm"
	"github.com/ignatzorin/proposal-ai-backend/internal/db"
	"github.com/ignatzorin/proposal-ai-backend/internal/gdocs"
	"github.com/ignatzorin/proposal-ai-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/proposal-ai-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/proposal-ai-backend/internal/http/router"
	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
	"github.com/ignatzorin/proposal-ai-backend/internal/mailer"
	"github.com/ignatzorin/proposal-ai-backend/internal/repository"
	"github.com/ignatzorin/proposal-ai-backend/internal/service"
	"github.com/ignatzorin/proposal-ai-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Репозитории.
	proposalRepo := repository.NewProposalRepository(dbConn)
	clauseRepo := repository.NewClauseRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	emailLogRepo := repository.NewEmailLogRepository(dbConn)
	settingsRepo := repository.NewSettingsRepository(dbConn)
	dealRepo := repository.NewDealRepository(dbConn)
	sendStore := repository.NewSendStore(dbConn, emailLogRepo, proposalRepo)

	// Внешние клиенты.
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
	resendMailer := mailer.NewResendMailer(cfg.ResendAPIKey)
	brevoClient := crm.NewClient(cfg.BrevoBaseURL, cfg.BrevoAPIKey)
	docExporter := gdocs.NewExporter(cfg.GoogleCredentialsFile)

	// Сервисы.
	proposalService := service.NewProposalService(proposalRepo, clauseRepo, templateRepo, aiClient, cfg.StatusFlowEnforced)
	clauseService := service.NewClauseService(clauseRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	notificationService := service.NewNotificationService(proposalRepo, emailLogRepo, sendStore, settingsRepo, resendMailer, cfg.PublicBaseURL)
	analyticsService := service.NewAnalyticsService(proposalRepo)
	integrationService := service.NewIntegrationService(resendMailer.Ping, brevoClient.Ping, docExporter.Connected)
	crmService := service.NewCRMService(dealRepo, settingsRepo, notificationService, cfg.BrevoProposalStage)
	seedService := service.NewSeedService(clauseRepo, templateRepo)

	// Стартовые данные библиотеки.
	if err := seedService.Seed(ctx); err != nil {
		log.Fatalf("main: ошибка заполнения стартовых данных: %v", err)
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()
	notificationService.SetHub(hub)

	// Фоновый поллер сделок Brevo.
	poller := crm.NewPoller(brevoClient, crmService, settingsRepo)
	goroutine.SafeGoWithContext(ctx, poller.Run)

	// HTTP хэндлеры.
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService)
	googleDocHandler := httpHandlers.NewGoogleDocHandler(proposalService, settingsService, docExporter)
	clauseHandler := httpHandlers.NewClauseHandler(clauseService)
	templateHandler := httpHandlers.NewTemplateHandler(templateRepo)
	emailHandler := httpHandlers.NewEmailHandler(notificationService, cfg.PublicBaseURL)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService)
	integrationHandler := httpHandlers.NewIntegrationHandler(integrationService)
	crmHandler := httpHandlers.NewCRMHandler(crmService, cfg.BrevoWebhookSecret)
	statsHandler := httpHandlers.NewStatsHandler(analyticsService)
	uploadHandler := httpHandlers.NewUploadHandler(cfg.MaxUploadSizeMB)
	wsHandler := httpHandlers.NewWSHandler(hub)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, healthHandler, proposalHandler, googleDocHandler, clauseHandler, templateHandler, emailHandler, settingsHandler, integrationHandler, crmHandler, statsHandler, uploadHandler, wsHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
