package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"command-center/internal/domain/telemetry"
	"command-center/internal/domain/widget"
)

// AutoMigrate applies database schema changes for all persisted models.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	models := []any{
		&telemetry.WidgetRun{},
		&telemetry.ActionLog{},
		&widget.CustomWidget{},
	}
	for _, model := range models {
		if err := db.WithContext(ctx).AutoMigrate(model); err != nil {
			log.Error().Err(err).Msgf("failed to auto migrate schema: %T", model)
			return err
		}
	}
	log.Info().Int("models", len(models)).Msg("database schema up to date")
	return nil
}
