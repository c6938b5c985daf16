package handlers

import (
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"command-center/internal/catalog"
	"command-center/internal/config"
	"command-center/internal/domain/telemetry"
	"command-center/internal/domain/widget"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/infrastructure/n8n"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Genie     *GenieHandler
	SQL       *SQLHandler
	Jobs      *JobsHandler
	Workflow  *WorkflowHandler
	Dashboard *DashboardHandler
	Telemetry *TelemetryHandler
	Widget    *WidgetHandler
	Studio    *StudioHandler
}

// NewProvider constructs the handler provider with domain services and
// upstream clients.
func NewProvider(
	cfg *config.Config,
	cat *catalog.Catalog,
	factory *databricks.Factory,
	n8nClient *n8n.Client,
	httpClient *resty.Client,
	telemetryService *telemetry.Service,
	widgetService *widget.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Genie:     NewGenieHandler(factory, cat, log),
		SQL:       NewSQLHandler(factory, cat, cfg.SQLWarehouseID, log),
		Jobs:      NewJobsHandler(factory, log),
		Workflow:  NewWorkflowHandler(cat, n8nClient, log),
		Dashboard: NewDashboardHandler(cat, cfg.TableauServerURL),
		Telemetry: NewTelemetryHandler(telemetryService),
		Widget:    NewWidgetHandler(widgetService, factory, cfg.DevMode, log),
		Studio:    NewStudioHandler(factory, httpClient, cfg.SQLWarehouseID, cfg.LLMModel, log),
	}
}
