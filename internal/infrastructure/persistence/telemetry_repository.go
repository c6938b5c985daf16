package persistence

import (
	"context"

	"gorm.io/gorm"

	"command-center/internal/domain/telemetry"
)

// TelemetryRepository is the gorm-backed implementation of
// telemetry.Repository.
type TelemetryRepository struct {
	db *gorm.DB
}

// NewTelemetryRepository creates a new telemetry repository.
func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// CreateWidgetRun inserts a widget run row.
func (r *TelemetryRepository) CreateWidgetRun(ctx context.Context, run *telemetry.WidgetRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// CountRunsByWidget aggregates run counts per widget id.
func (r *TelemetryRepository) CountRunsByWidget(ctx context.Context) ([]telemetry.PopularityCount, error) {
	var counts []telemetry.PopularityCount
	err := r.db.WithContext(ctx).
		Model(&telemetry.WidgetRun{}).
		Select("widget_id, COUNT(*) as count").
		Group("widget_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CreateActionLog inserts an action log row.
func (r *TelemetryRepository) CreateActionLog(ctx context.Context, entry *telemetry.ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListActionLogs returns action logs ordered most recent first.
func (r *TelemetryRepository) ListActionLogs(ctx context.Context, limit, offset int) ([]telemetry.ActionLog, error) {
	var logs []telemetry.ActionLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
