package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/appsheet"
	"github.com/Monticola-data/backend-kalendar/internal/config"
	"github.com/Monticola-data/backend-kalendar/internal/database"
	"github.com/Monticola-data/backend-kalendar/internal/handlers"
	"github.com/Monticola-data/backend-kalendar/internal/logger"
	"github.com/Monticola-data/backend-kalendar/internal/rabbitmq"
	"github.com/Monticola-data/backend-kalendar/internal/relay"
	"github.com/Monticola-data/backend-kalendar/internal/routes"
	"github.com/Monticola-data/backend-kalendar/internal/store"
)

func main() {
	if err := logger.Init(os.Getenv("LOG_LEVEL")); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Load configuration once and pass it by reference everywhere
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to PostgreSQL and apply migrations
	db, err := database.Connect(&cfg.Database, logger.Logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger.Logger); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(&cfg.Database, logger.Logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to RabbitMQ
	rmq := rabbitmq.NewConnection(&cfg.RabbitMQ, logger.Logger)
	if err := rmq.Connect(); err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rmq.Close()

	bridgeStore := store.New(db, logger.Logger)
	remote := appsheet.NewClient(&cfg.AppSheet, logger.Logger)

	// Start the status relay consumer
	statusRelay := relay.NewRelay(&cfg.Relay, rmq, bridgeStore, logger.Logger)
	if err := statusRelay.Start(); err != nil {
		logger.Fatal("Failed to start status relay", zap.Error(err))
	}
	defer func() {
		if err := statusRelay.Stop(); err != nil {
			logger.Error("Error stopping status relay", zap.Error(err))
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Kalendar Bridge",
		ServerHeader: "Fiber",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Setup routes
	routes.SetupRoutes(app, &routes.Handlers{
		Webhook:   handlers.NewWebhookHandler(bridgeStore, rmq, &cfg.Relay, logger.Logger),
		Status:    handlers.NewStatusHandler(bridgeStore, logger.Logger),
		Events:    handlers.NewEventsHandler(remote, logger.Logger),
		Jobs:      handlers.NewJobsHandler(remote, &cfg.AppSheet, logger.Logger),
		Documents: handlers.NewDocumentsHandler(bridgeStore, logger.Logger),
		Health:    handlers.NewHealthHandler(db, rmq),
	})

	// Start server in a goroutine
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
