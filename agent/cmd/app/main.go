package main

import (
	"context"
	"log"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/agent/internal/handlers"
	"meme-scanner/agent/internal/services"
	"meme-scanner/shared/config"
	"meme-scanner/shared/env"
	"meme-scanner/shared/logger"
	"meme-scanner/shared/notifications"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func startHeartbeat(appLogger *logger.Logger) {
	go func() {
		ticker := time.NewTicker(8 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			appLogger.Info("Heartbeat: Program running...")
		}
	}()
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Panicf("FATAL PANIC RECOVERY: %v", r)
		}
	}()

	if err := env.LoadEnv(); err != nil {
		log.Fatalf("FATAL: Failed to load environment variables: %v", err)
	}

	cfg, err := config.LoadConfig("agent/config.yaml")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	config.SetGlobalConfig(cfg)

	notifications.InitOpsWebhook(env.OpsDiscordWebhook)

	loggerCfg := logger.Config{
		Level:         cfg.Logging.Level,
		Environment:   cfg.App.Environment,
		EnableDiscord: env.OpsDiscordWebhook != "",
	}
	appLogger, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	appLogger.Info("Application logger initialized successfully.")

	dsn := database.BuildDSN()
	appLogger.Info("Connecting to database...")
	db, errDb := database.ConnectToDatabase(dsn)
	if errDb != nil {
		appLogger.Fatal("Database connection failed", zap.Error(errDb))
	}
	appLogger.Info("Database connection established successfully.")

	appLogger.Info("Running database migrations...")
	if err := database.MigrateDatabase(db, dsn); err != nil {
		appLogger.Fatal("Database migrations failed", zap.Error(err))
	}
	appLogger.Info("Database migrations completed.")

	lifecycleStore := database.NewLifecycleStore(db)
	scanStore := database.NewScanStore(db)
	callStore := database.NewCallStore(db)
	outcomeStore := database.NewOutcomeStore(db)
	keywordStore := database.NewKeywordStore(db)

	dexClient := services.NewDexClient(appLogger)
	notifier := services.NewNotifier(cfg.Scanner, env.DiscordWebhook, appLogger)

	scanner := services.NewScanner(cfg.Scanner, cfg.Trends, appLogger, dexClient,
		lifecycleStore, scanStore, callStore, keywordStore, notifier)
	collector := services.NewCollector(cfg.Scanner, cfg.Collector, appLogger, dexClient, lifecycleStore)
	labeler := services.NewLabeler(cfg.Scanner, cfg.Labeler, appLogger, dexClient, outcomeStore)

	appLogger.Info("Starting background services...")
	ctx := context.Background()
	go collector.Run(ctx)
	go scanner.Run(ctx)
	go labeler.Run(ctx)
	go services.RunTrendDecay(ctx, keywordStore, cfg.Trends, appLogger)
	appLogger.Info("Background services started.")

	appLogger.Info("Setting up web server...")
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	handler := handlers.NewHandler(appLogger, cfg.Trends, lifecycleStore, scanStore, callStore, keywordStore)
	handlers.RegisterRoutes(router, handler)
	appLogger.Info("Web server and API routes registered.")

	go func() {
		serverAddr := ":" + env.Port
		appLogger.Info("Starting web server", zap.String("address", serverAddr))
		if err := router.Run(serverAddr); err != nil {
			appLogger.Fatal("Could not start web server.", zap.Error(err))
		}
	}()

	appLogger.Info("Starting heartbeat monitor.")
	startHeartbeat(appLogger)

	appLogger.Info("Application startup complete. Waiting for events...")
	select {}
}
