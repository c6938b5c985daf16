package telemetry

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"command-center/internal/utils/platformerrors"
)

// Repository persists telemetry rows.
type Repository interface {
	CreateWidgetRun(ctx context.Context, run *WidgetRun) error
	CountRunsByWidget(ctx context.Context) ([]PopularityCount, error)
	CreateActionLog(ctx context.Context, log *ActionLog) error
	ListActionLogs(ctx context.Context, limit, offset int) ([]ActionLog, error)
}

const (
	defaultActionLimit = 100
	maxActionLimit     = 1000
)

// Service implements telemetry use cases on top of a Repository.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService builds a telemetry service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "telemetry").Logger(),
	}
}

// RecordWidgetRun stores one run for the widget id.
func (s *Service) RecordWidgetRun(ctx context.Context, widgetID string) error {
	if widgetID == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "widget_id is required", nil)
	}
	run := &WidgetRun{WidgetID: widgetID}
	if err := s.repo.CreateWidgetRun(ctx, run); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record widget run")
	}
	s.log.Debug().Str("widget_id", widgetID).Msg("recorded widget run")
	return nil
}

// PopularityScores returns run counts keyed by widget id.
func (s *Service) PopularityScores(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountRunsByWidget(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load popularity scores")
	}
	scores := make(map[string]int64, len(counts))
	for _, c := range counts {
		scores[c.WidgetID] = c.Count
	}
	return scores, nil
}

// RecordAction stores an action log entry. A non-string context value is
// stringified as JSON; a string passes through verbatim, so stringification is
// idempotent.
func (s *Service) RecordAction(ctx context.Context, widgetID, widgetName, explanation string, contextValue any) (*ActionLog, error) {
	contextStr, err := StringifyContext(contextValue)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "context is not serializable", err)
	}

	entry := &ActionLog{
		WidgetID:    widgetID,
		WidgetName:  widgetName,
		Explanation: explanation,
		Context:     contextStr,
	}
	if err := s.repo.CreateActionLog(ctx, entry); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record action log")
	}
	return entry, nil
}

// Actions lists action log entries, most recent first.
func (s *Service) Actions(ctx context.Context, limit, offset int) ([]ActionLog, error) {
	if limit <= 0 {
		limit = defaultActionLimit
	}
	if limit > maxActionLimit {
		limit = maxActionLimit
	}
	if offset < 0 {
		offset = 0
	}
	logs, err := s.repo.ListActionLogs(ctx, limit, offset)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list action logs")
	}
	return logs, nil
}

// StringifyContext converts an arbitrary context payload to its stored string
// form. Strings are returned unchanged.
func StringifyContext(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	if value == nil {
		return "", nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
