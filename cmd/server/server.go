package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"command-center/internal/catalog"
	"command-center/internal/config"
	"command-center/internal/domain/telemetry"
	"command-center/internal/domain/widget"
	"command-center/internal/infrastructure/database"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/infrastructure/logger"
	"command-center/internal/infrastructure/n8n"
	"command-center/internal/infrastructure/observability"
	"command-center/internal/infrastructure/persistence"
	"command-center/internal/interfaces/httpserver"
	"command-center/internal/utils/httpclients"
)

// @title Command Center API
// @version 1.0
// @description Backend-for-frontend over analytics, job orchestration and workflow upstreams
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load widget catalog")
	}

	httpClient := httpclients.NewClient("command-center", cfg.HTTPTimeout)
	factory := databricks.NewFactory(
		cfg.DatabricksHost,
		cfg.DatabricksClientID,
		cfg.DatabricksClientSecret,
		cfg.DevMode,
		cfg.UseServiceForJobs,
		httpClient,
	)
	n8nClient := n8n.NewClient(cfg.N8NBaseURL, httpClient)

	telemetryService := telemetry.NewService(persistence.NewTelemetryRepository(db), log)
	widgetService := widget.NewService(persistence.NewWidgetRepository(db), log)

	if cfg.DevMode {
		log.Warn().Msg("dev mode enabled, all upstream calls use the service identity")
	}

	httpServer := httpserver.New(cfg, log, cat, factory, n8nClient, httpClient, telemetryService, widgetService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
