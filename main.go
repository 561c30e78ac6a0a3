package main

import (
	"time"

	"go.uber.org/zap"

	"cybersafe-backend/internal/analysis_client"
	"cybersafe-backend/internal/config"
	"cybersafe-backend/internal/notifier"
	"cybersafe-backend/internal/queue"
	"cybersafe-backend/internal/report_processor"
	"cybersafe-backend/internal/repository"
	"cybersafe-backend/internal/server"
	"cybersafe-backend/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Initialize stores. The in-memory driver is the reference behavior;
	// postgres keeps the same orchestration logic against a real database.
	var reportStore repository.ReportStore
	var chatStore repository.ChatStore
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := repository.NewPostgresDB(cfg.Storage.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repository.MigrateDB(db, logger)
		reportStore = repository.NewPostgresReportStore(db, logger)
		chatStore = repository.NewPostgresChatStore(db, logger)
	case "memory":
		reportStore = repository.NewMemoryReportStore(logger)
		chatStore = repository.NewMemoryChatStore()
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	// Initialize analysis service client and stage adapters
	analysisClient := analysis_client.NewClient(cfg.AnalysisService.URL)
	stages := report_processor.NewAnalysisStages(analysisClient)

	// Initialize report event publisher (optional)
	publisher := queue.NewNoopPublisher()
	if cfg.Queue.Enabled {
		amqpPublisher, err := queue.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.QueueName, logger)
		if err != nil {
			logger.Warn("Failed to connect to RabbitMQ, continuing without event publishing", zap.Error(err))
		} else {
			publisher = amqpPublisher
			defer publisher.Close()
		}
	}

	// Initialize Telegram notifier for escalated cases (optional)
	var escalationNotifier report_processor.Notifier
	telegramNotifier, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
	} else if telegramNotifier != nil {
		escalationNotifier = telegramNotifier
	}

	// Load the fraud indicator corpus
	knownIndicators, err := report_processor.LoadKnownIndicators(cfg.FraudIndicatorsFile)
	if err != nil {
		logger.Fatal("Failed to load fraud indicators", zap.Error(err))
	}

	// Initialize the report processor
	processor := report_processor.NewProcessor(
		reportStore,
		stages,
		publisher,
		escalationNotifier,
		knownIndicators,
		time.Duration(cfg.AnalysisService.StageTimeout)*time.Second,
		logger,
	)

	// Initialize the chat session service
	chatService := service.NewChatService(chatStore, reportStore, logger)

	// Initialize and run the server
	srv := server.NewServer(processor, reportStore, chatService, analysisClient, logger)
	if err := srv.Run(cfg.Server.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
