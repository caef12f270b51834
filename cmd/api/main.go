package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/config"
	"github.com/noah-isme/campushub-api/internal/database"
	"github.com/noah-isme/campushub-api/internal/handler"
	"github.com/noah-isme/campushub-api/internal/middleware"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/repository"
	"github.com/noah-isme/campushub-api/internal/router"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/store"
	"github.com/noah-isme/campushub-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	backend, err := openBackend(cfg, redisClient)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	recordStore := store.New(backend)

	var publisher service.AuditPublisher
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer conn.Drain()
		publisher = conn
	}

	var describer ai.Describer
	if cfg.OpenAIAPIKey != "" {
		openAI, err := ai.NewOpenAIDescriber(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.AIBaseURL,
			Model:   cfg.AIModel,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("failed to create ai client: %v", err)
		}
		describer = openAI
	} else {
		logger.Warn().Msg("openai api key not set, descriptions fall back to placeholder text")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	ledger := service.NewAuditLedger(recordStore, service.AuditLedgerConfig{
		SourceAddress: cfg.AuditSourceAddress,
		Subject:       cfg.AuditNATSSubject,
	}, publisher, logger)
	vault := service.NewCredentialVault(recordStore, cfg.BcryptCost)

	identityService := service.NewIdentityService(recordStore, ledger, vault, validate, logger)
	courseService := service.NewCourseService(recordStore, ledger, validate, logger)
	eventService := service.NewEventService(recordStore, ledger, validate, logger)
	dashboardService := service.NewDashboardService(courseService, redisClient, cfg.DashboardCacheTTL, logger)
	descriptionService := service.NewDescriptionService(ai.WithFallback(describer, logger), validate)
	seedService := service.NewSeedService(recordStore, vault, cfg.SeedEnabled, logger)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seedService.Seed(seedCtx); err != nil && !errors.Is(err, service.ErrSeedDisabled) {
		cancelSeed()
		log.Fatalf("failed to seed record store: %v", err)
	}
	cancelSeed()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(identityService, tokenService, validate, logger),
		CourseHandler:      handler.NewCourseHandler(courseService, validate, logger),
		EventHandler:       handler.NewEventHandler(eventService, validate, logger),
		AuditHandler:       handler.NewAuditHandler(ledger, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		DescriptionHandler: handler.NewDescriptionHandler(descriptionService, logger),
		SeedHandler:        handler.NewSeedHandler(seedService, logger),
		SessionMiddleware:  middleware.RequireSession(tokenService, identityService),
		AuthLimiter:        middleware.RateLimit("auth", 10, time.Minute),
		AILimiter:          middleware.RateLimit("ai", 5, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Msg("campushub api started")
	waitForShutdown(app)
}

func openBackend(cfg config.Config, redisClient *redis.Client) (store.Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		if redisClient == nil {
			return nil, errors.New("redis storage requires redis.url")
		}
		return repository.NewRedisRecordRepository(redisClient, cfg.RedisKeyPrefix), nil
	case config.StoragePostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Record{}); err != nil {
			return nil, err
		}
		return repository.NewRecordRepository(db), nil
	default:
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Record{}); err != nil {
			return nil, err
		}
		return repository.NewRecordRepository(db), nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
