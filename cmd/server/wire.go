//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"resty.dev/v3"

	"command-center/internal/catalog"
	"command-center/internal/config"
	"command-center/internal/domain/telemetry"
	"command-center/internal/domain/widget"
	"command-center/internal/infrastructure/database"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/infrastructure/logger"
	"command-center/internal/infrastructure/n8n"
	"command-center/internal/infrastructure/persistence"
	"command-center/internal/interfaces/httpserver"
	"command-center/internal/utils/httpclients"
)

var domainSet = wire.NewSet(
	persistence.NewTelemetryRepository,
	wire.Bind(new(telemetry.Repository), new(*persistence.TelemetryRepository)),
	telemetry.NewService,
	persistence.NewWidgetRepository,
	wire.Bind(new(widget.Repository), new(*persistence.WidgetRepository)),
	widget.NewService,
)

// BuildApplication assembles the service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		newLogger,
		newDatabaseConfig,
		newGormDB,
		newCatalog,
		newHTTPClient,
		newFactory,
		newN8NClient,
		domainSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	return catalog.Load(cfg.CatalogFile)
}

func newHTTPClient(cfg *config.Config) *resty.Client {
	return httpclients.NewClient("command-center", cfg.HTTPTimeout)
}

func newFactory(cfg *config.Config, httpClient *resty.Client) *databricks.Factory {
	return databricks.NewFactory(
		cfg.DatabricksHost,
		cfg.DatabricksClientID,
		cfg.DatabricksClientSecret,
		cfg.DevMode,
		cfg.UseServiceForJobs,
		httpClient,
	)
}

func newN8NClient(cfg *config.Config, httpClient *resty.Client) *n8n.Client {
	return n8n.NewClient(cfg.N8NBaseURL, httpClient)
}
