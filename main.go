// File: voyago/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/config"
	"voyago/cron"
	"voyago/database"
	bookingRepoPkg "voyago/database/repository/booking"
	conversationRepoPkg "voyago/database/repository/conversation"
	"voyago/handlers"
	"voyago/middleware"
	"voyago/routes"
	"voyago/services/assistant"
	"voyago/services/booking"
	"voyago/services/notification"
	"voyago/services/tasks"
	"voyago/services/travel"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	convRepo := conversationRepoPkg.NewMongoConversationRepo()
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	scheduler := tasks.NewAsynqScheduler()
	defer scheduler.Close()

	notificationService := notification.NewDefaultNotificationService()
	cron.InitReminderWorker(notificationService)

	travelService := travel.NewDefaultTravelService(utils.GetCacheClient())
	bookingService := booking.NewDefaultBookingService(bkRepo, scheduler, logger)

	registry := assistant.NewRegistry()
	assistant.RegisterTravelCapabilities(registry, travelService)
	assistant.RegisterBookingCapabilities(registry, bookingService)
	assistant.RegisterPlanningCapabilities(registry, scheduler)

	model, err := assistant.NewGeminiModel(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		assistant.SystemPrompt(),
		registry.Declarations(),
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize model client: %v", err)
	}

	ctxStore := assistant.NewTripContextStore(utils.GetContextCacheClient(), 30*time.Minute)
	assistantService := assistant.NewDefaultAssistantService(model, registry, convRepo, ctxStore, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Assistant:     assistantService,
		Booking:       bookingService,
		Travel:        travelService,
		Notifications: notificationService,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background dependency snapshots for /health.
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetContextCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
